// Package registry owns the population of creatures: it creates them,
// starts their life loops, answers lookups and tears everything down on exit.
package registry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/tamago/caretaker/internal/creature"
	"go.uber.org/zap"
)

var (
	ErrUnknownEntity = errors.New("unknown creature")
	ErrDuplicateID   = errors.New("duplicate creature id")
	ErrShutdown      = errors.New("registry shut down")
)

// DurationFunc maps a uniform roll in [0,1) to an eating duration within
// [lo, hi].
type DurationFunc func(lo, hi time.Duration, roll float64) time.Duration

// LinearDuration interpolates between lo and hi.
func LinearDuration(lo, hi time.Duration, roll float64) time.Duration {
	return lo + time.Duration(roll*float64(hi-lo))
}

// Options configures a Registry.
type Options struct {
	IDPrefix    string       // default "entity"
	EatDuration DurationFunc // default LinearDuration
}

// Entry is one row of List.
type Entry struct {
	ID    string
	Alive bool
}

// Registry is an insertion-ordered collection of creatures.
type Registry struct {
	deps   *creature.Deps
	opts   Options
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	order  []*creature.Creature
	byID   map[string]*creature.Creature
	closed bool

	shutdown sync.Once
}

// New returns an empty registry. Every creature's lifecycle derives from
// parent.
func New(parent context.Context, deps *creature.Deps, opts Options) *Registry {
	if opts.IDPrefix == "" {
		opts.IDPrefix = "entity"
	}
	if opts.EatDuration == nil {
		opts.EatDuration = LinearDuration
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Registry{
		deps:   deps,
		opts:   opts,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		byID:   make(map[string]*creature.Creature),
	}
}

// Create builds a creature, starts its life loop and records it.
func (r *Registry) Create(id string, eatFor time.Duration) (*creature.Creature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrShutdown
	}
	if _, ok := r.byID[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	c := creature.New(r.ctx, id, eatFor, r.deps)
	r.order = append(r.order, c)
	r.byID[id] = c
	c.Start()
	return c, nil
}

// Populate creates count creatures named <prefix>-N, continuing the sequence
// after any existing ones, each with its own random eating duration.
func (r *Registry) Populate(count int) ([]*creature.Creature, error) {
	lc := r.deps.Lifecycle
	created := make([]*creature.Creature, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("%s-%d", r.opts.IDPrefix, r.Len())
		eatFor := r.opts.EatDuration(lc.EatMin, lc.EatMax, r.roll())
		if eatFor < lc.EatMin {
			eatFor = lc.EatMin
		}
		if eatFor > lc.EatMax {
			eatFor = lc.EatMax
		}
		c, err := r.Create(id, eatFor)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", id, err)
		}
		created = append(created, c)
	}
	return created, nil
}

func (r *Registry) roll() float64 {
	if r.deps.Rand == nil {
		return 0.5
	}
	return r.deps.Rand.Float64()
}

// Get looks a creature up by id.
func (r *Registry) Get(id string) (*creature.Creature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	return c, nil
}

// At returns the creature at a List index.
func (r *Registry) At(index int) (*creature.Creature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.order) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownEntity, index)
	}
	return r.order[index], nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// List yields (index, entry) for every known creature in creation order. The
// sequence is lazy: liveness is read when each entry is produced, and it can
// be ranged over any number of times.
func (r *Registry) List() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, c := range r.all() {
			if !yield(i, Entry{ID: c.ID(), Alive: c.Alive()}) {
				return
			}
		}
	}
}

// Creatures yields every creature in creation order.
func (r *Registry) Creatures() iter.Seq[*creature.Creature] {
	return func(yield func(*creature.Creature) bool) {
		for _, c := range r.all() {
			if !yield(c) {
				return
			}
		}
	}
}

// Snapshots returns the state of every creature in creation order.
func (r *Registry) Snapshots() []creature.Snapshot {
	all := r.all()
	out := make([]creature.Snapshot, 0, len(all))
	for _, c := range all {
		out = append(out, c.Snapshot())
	}
	return out
}

// AllDead reports whether the registry is non-empty and nobody is alive.
func (r *Registry) AllDead() bool {
	all := r.all()
	if len(all) == 0 {
		return false
	}
	for _, c := range all {
		if c.Alive() {
			return false
		}
	}
	return true
}

// Shutdown force-kills every living creature, cancels all life loops and
// action workers and waits for them to return. It is idempotent and later
// Create calls fail with ErrShutdown.
func (r *Registry) Shutdown() {
	r.shutdown.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		all := r.all()
		for _, c := range all {
			if c.Alive() {
				c.ForceKill()
			}
		}
		r.cancel()
		for _, c := range all {
			c.Wait()
		}
		r.log.Info("all creatures stopped", zap.Int("count", len(all)))
	})
}

func (r *Registry) all() []*creature.Creature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.order[:len(r.order):len(r.order)]
}
