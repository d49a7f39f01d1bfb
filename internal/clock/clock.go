// Package clock supplies time and randomness to the simulation so tests can
// substitute deterministic versions.
package clock

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Clock reports the current time. Real clocks carry a monotonic reading so
// age and soiling intervals are immune to wall-clock jumps.
type Clock interface {
	Now() time.Time
}

// Rand is the randomness the simulation consumes. Implementations must be
// safe for concurrent use.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns the process clock.
func Real() Clock { return realClock{} }

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Global returns the process-wide generator from math/rand/v2.
func Global() Rand { return globalRand{} }

// lockedRand serializes access to a seeded generator.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// Seeded returns a deterministic generator, mostly for tests.
func Seeded(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
