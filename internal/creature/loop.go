package creature

import (
	"time"

	"github.com/tamago/caretaker/internal/core/event"
	"go.uber.org/zap"
)

// live is the background loop: one tick per TickInterval until the creature
// dies or its context is cancelled.
func (c *Creature) live() {
	defer c.tasks.Done()

	ticker := time.NewTicker(c.deps.Lifecycle.TickInterval)
	defer ticker.Stop()

	for {
		if c.tick() {
			c.log.Debug("life loop finished")
			return
		}
		select {
		case <-c.ctx.Done():
			c.mu.Lock()
			c.dieLocked(CauseCancelled)
			c.mu.Unlock()
			c.log.Debug("life loop cancelled")
			return
		case <-ticker.C:
		}
	}
}

// tick evaluates death and soiling once and reports whether the creature is
// dead afterwards. Old age and dirt are both pending causes that only fire
// while the creature is idle; a busy creature finishes what it is doing first.
func (c *Creature) tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alive {
		return true
	}

	lc := c.deps.Lifecycle
	now := c.deps.Clock.Now()
	tooOld := now.Sub(c.born) > lc.MaxLifespan
	tooDirty := c.dirt >= lc.MaxDirt

	if tooOld || tooDirty {
		cause := CauseDirt
		if tooOld {
			cause = CauseOldAge
		}
		if c.phase == PhaseIdle {
			return c.dieLocked(cause)
		}
		if !c.deferred {
			c.deferred = true
			c.log.Info("death deferred until idle",
				zap.Stringer("cause", cause),
				zap.Stringer("phase", c.phase))
			event.Emit(c.deps.Bus, event.DeathDeferred{
				Creature: c.id,
				Cause:    cause.String(),
				Phase:    c.phase.String(),
				At:       now,
			})
		}
		return false
	}
	c.deferred = false

	if c.phase != PhaseCleaning && now.Sub(c.lastSoiled) > lc.DirtInterval {
		c.dirt++
		c.lastSoiled = now
		c.log.Info("getting dirty", zap.Int("dirt", c.dirt), zap.Int("max", lc.MaxDirt))
		event.Emit(c.deps.Bus, event.Soiled{Creature: c.id, Level: c.dirt, At: now})
		if c.dirt == lc.DirtWarning {
			c.log.Warn("very dirty, needs a bath soon", zap.Int("dirt", c.dirt))
			event.Emit(c.deps.Bus, event.DirtWarning{Creature: c.id, Level: c.dirt, At: now})
		}
	}
	return false
}
