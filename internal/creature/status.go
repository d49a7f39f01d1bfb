package creature

import (
	"fmt"
	"time"
)

// Snapshot is a consistent copy of a creature's state at one instant.
type Snapshot struct {
	ID      string
	Alive   bool
	Phase   Phase
	Dirt    int
	MaxDirt int
	Age     time.Duration
	MaxAge  time.Duration
}

// Snapshot reads the whole state under a single lock acquisition.
func (c *Creature) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ID:      c.id,
		Alive:   c.alive,
		Phase:   c.phase,
		Dirt:    c.dirt,
		MaxDirt: c.deps.Lifecycle.MaxDirt,
		Age:     c.deps.Clock.Now().Sub(c.born),
		MaxAge:  c.deps.Lifecycle.MaxLifespan,
	}
}

// String renders "[id] | alive | phase | dirt/max | age/maxage" with ages in
// seconds to one decimal.
func (s Snapshot) String() string {
	return fmt.Sprintf("[%s] | alive: %-5t | phase: %-8s | dirt: %d/%d | age: %.1f / %.1fs",
		s.ID, s.Alive, s.Phase, s.Dirt, s.MaxDirt, s.Age.Seconds(), s.MaxAge.Seconds())
}
