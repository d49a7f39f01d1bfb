package creature

import (
	"time"

	"github.com/tamago/caretaker/internal/core/event"
	"go.uber.org/zap"
)

// Feed starts a meal. It returns false without side effects when the
// creature is dead or busy; otherwise the creature is EATING on return and
// a worker puts it back to IDLE after its eating duration.
func (c *Creature) Feed(food string) bool {
	if _, ok := c.begin(PhaseEating, food); !ok {
		return false
	}
	c.log.Info("starts eating", zap.String("food", food), zap.Duration("takes", c.eatFor))
	go c.work(PhaseEating, c.eatFor, func(time.Time) {
		c.log.Info("finished eating, yummy")
	})
	return true
}

// Clean starts a bath with the same contract as Feed. Dirtiness is reset
// only when the bath runs to completion.
func (c *Creature) Clean() bool {
	d := c.deps.Lifecycle.CleanDuration
	if _, ok := c.begin(PhaseCleaning, ""); !ok {
		return false
	}
	c.log.Info("bath time", zap.Duration("takes", d))
	go c.work(PhaseCleaning, d, func(now time.Time) {
		c.dirt = 0
		c.lastSoiled = now
		c.log.Info("squeaky clean")
	})
	return true
}

// Kill ends an idle creature's life. Busy and dead creatures are left alone.
func (c *Creature) Kill() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseIdle {
		c.log.Debug("kill rejected", zap.Stringer("phase", c.phase))
		return false
	}
	c.log.Info("killed by the caretaker")
	return c.dieLocked(CauseKilled)
}

// ForceKill kills the creature whatever it is doing. It is idempotent.
func (c *Creature) ForceKill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.alive {
		c.log.Info("forced to die by the caretaker", zap.Stringer("phase", c.phase))
	}
	c.dieLocked(CauseForced)
}

// begin is the shared check-and-set for actions: alive and idle, then busy.
// It returns the phase it found. On success a worker slot is reserved on
// c.tasks for the timed actions.
func (c *Creature) begin(p Phase, detail string) (Phase, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.phase
	if !c.alive {
		c.log.Debug("action rejected, dead", zap.Stringer("action", p))
		return prev, false
	}
	if prev != PhaseIdle {
		c.log.Debug("action rejected, busy", zap.Stringer("action", p), zap.Stringer("phase", prev))
		return prev, false
	}
	c.phase = p
	if p != PhasePlaying {
		c.tasks.Add(1)
	}
	event.Emit(c.deps.Bus, event.ActionStarted{
		Creature: c.id,
		Action:   p.String(),
		Detail:   detail,
		At:       c.deps.Clock.Now(),
	})
	return prev, true
}

// work is an action worker. It waits out the action, then restores IDLE only
// if the creature is still in phase p; a death in the meantime wins. finish
// runs under the lock and only when the action ran to completion.
func (c *Creature) work(p Phase, d time.Duration, finish func(now time.Time)) {
	defer c.tasks.Done()

	timer := time.NewTimer(d)
	defer timer.Stop()

	completed := false
	select {
	case <-timer.C:
		completed = true
	case <-c.ctx.Done():
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.end(p, completed, finish) {
		c.log.Info("interrupted", zap.Stringer("action", p))
	}
}

// end leaves phase p and reports whether the action counts as completed.
// Callers hold c.mu.
func (c *Creature) end(p Phase, completed bool, finish func(now time.Time)) bool {
	now := c.deps.Clock.Now()
	if c.phase != p {
		completed = false
	} else {
		if completed && finish != nil {
			finish(now)
		}
		c.phase = PhaseIdle
	}
	event.Emit(c.deps.Bus, event.ActionEnded{
		Creature:  c.id,
		Action:    p.String(),
		Completed: completed,
		At:        now,
	})
	return completed
}
