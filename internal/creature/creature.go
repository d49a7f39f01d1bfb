// Package creature implements one autonomous virtual pet: its phase state
// machine, the background loop that ages and soils it, and the caretaker
// actions (feed, clean, play, kill).
//
// All reads and check-and-set transitions of (alive, phase, dirt, lastSoiled)
// happen under Creature.mu. Actions hold the lock only while switching
// phases, never for their whole duration.
package creature

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tamago/caretaker/internal/clock"
	"github.com/tamago/caretaker/internal/config"
	"github.com/tamago/caretaker/internal/core/event"
	"go.uber.org/zap"
)

// ChallengeFunc turns two operands into a play prompt and its expected answer.
type ChallengeFunc func(a, b int) (prompt string, answer int)

// SumChallenge is the built-in challenge: add the two operands.
func SumChallenge(a, b int) (string, int) {
	return fmt.Sprintf("What is %d + %d?", a, b), a + b
}

// Deps holds the collaborators shared by every creature of a registry.
type Deps struct {
	Lifecycle  config.LifecycleConfig
	OperandMax int

	Clock     clock.Clock
	Rand      clock.Rand
	Challenge ChallengeFunc
	Bus       *event.Bus // optional
	Log       *zap.Logger
}

func (d *Deps) withDefaults() *Deps {
	out := *d
	if out.Clock == nil {
		out.Clock = clock.Real()
	}
	if out.Rand == nil {
		out.Rand = clock.Global()
	}
	if out.Challenge == nil {
		out.Challenge = SumChallenge
	}
	if out.OperandMax < 1 {
		out.OperandMax = 5
	}
	if out.Log == nil {
		out.Log = zap.NewNop()
	}
	return &out
}

// Creature is one simulated pet.
type Creature struct {
	id     string
	born   time.Time
	eatFor time.Duration

	deps *Deps
	log  *zap.Logger

	// ctx is cancelled on death; the loop and workers watch it.
	ctx    context.Context
	cancel context.CancelFunc
	start  sync.Once
	tasks  sync.WaitGroup

	mu         sync.Mutex
	alive      bool
	phase      Phase
	dirt       int
	lastSoiled time.Time
	deferred   bool // a pending death has been announced
}

// New creates an idle, clean, living creature. Its lifecycle context derives
// from parent, so cancelling parent kills it. Call Start to begin aging.
func New(parent context.Context, id string, eatFor time.Duration, deps *Deps) *Creature {
	d := deps.withDefaults()
	ctx, cancel := context.WithCancel(parent)
	now := d.Clock.Now()
	c := &Creature{
		id:         id,
		born:       now,
		eatFor:     eatFor,
		deps:       d,
		log:        d.Log.With(zap.String("creature", id)),
		ctx:        ctx,
		cancel:     cancel,
		alive:      true,
		phase:      PhaseIdle,
		lastSoiled: now,
	}
	c.log.Info("born", zap.Duration("eat_for", eatFor))
	event.Emit(d.Bus, event.Born{Creature: id, EatFor: eatFor, At: now})
	return c
}

// Start launches the background loop. Later calls are no-ops.
func (c *Creature) Start() {
	c.start.Do(func() {
		c.tasks.Add(1)
		go c.live()
	})
}

// Stop cancels the creature's lifecycle, which kills it if it is still
// alive, and waits for the loop and any action worker to return.
func (c *Creature) Stop() {
	c.mu.Lock()
	c.dieLocked(CauseCancelled)
	c.mu.Unlock()
	c.tasks.Wait()
}

// Wait blocks until the loop and all workers have returned.
func (c *Creature) Wait() {
	c.tasks.Wait()
}

func (c *Creature) ID() string { return c.id }

func (c *Creature) EatDuration() time.Duration { return c.eatFor }

func (c *Creature) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *Creature) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Creature) Dirt() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirt
}

// dieLocked performs the terminal transition. It reports false when the
// creature was already dead. Callers hold c.mu.
func (c *Creature) dieLocked(cause Cause) bool {
	if !c.alive {
		return false
	}
	c.alive = false
	c.phase = PhaseDead
	c.cancel()

	now := c.deps.Clock.Now()
	age := now.Sub(c.born)
	c.log.Info("died", zap.Stringer("cause", cause), zap.Duration("age", age))
	event.Emit(c.deps.Bus, event.Died{Creature: c.id, Cause: cause.String(), Age: age, At: now})
	return true
}
