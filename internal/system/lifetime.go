package system

import (
	"sort"
	"sync"
	"time"

	"github.com/tamago/caretaker/internal/core/event"
)

// LifetimeStats tracks what happened to one creature over its life.
type LifetimeStats struct {
	Creature string
	Meals    int
	Baths    int
	Games    int
	GamesWon int
	Attempts int
	PeakDirt int
	Cause    string // empty while alive
	Age      time.Duration

	seq int // first-seen order, which is creation order
}

// LifetimeTracker collects per-creature statistics from bus events. Handlers
// run on the runner goroutine; Summary may be called from anywhere.
type LifetimeTracker struct {
	mu    sync.Mutex
	stats map[string]*LifetimeStats
}

func NewLifetimeTracker(bus *event.Bus) *LifetimeTracker {
	lt := &LifetimeTracker{stats: make(map[string]*LifetimeStats)}
	event.Subscribe(bus, func(ev event.Born) {
		lt.get(ev.Creature)
	})
	event.Subscribe(bus, func(ev event.Soiled) {
		lt.update(ev.Creature, func(s *LifetimeStats) {
			if ev.Level > s.PeakDirt {
				s.PeakDirt = ev.Level
			}
		})
	})
	event.Subscribe(bus, func(ev event.ActionEnded) {
		if !ev.Completed {
			return
		}
		lt.update(ev.Creature, func(s *LifetimeStats) {
			switch ev.Action {
			case "EATING":
				s.Meals++
			case "CLEANING":
				s.Baths++
			}
		})
	})
	event.Subscribe(bus, func(ev event.PlayFinished) {
		lt.update(ev.Creature, func(s *LifetimeStats) {
			s.Games++
			s.Attempts += ev.Attempts
			if ev.Outcome == "won" {
				s.GamesWon++
			}
		})
	})
	event.Subscribe(bus, func(ev event.Died) {
		lt.update(ev.Creature, func(s *LifetimeStats) {
			s.Cause = ev.Cause
			s.Age = ev.Age
		})
	})
	return lt
}

func (lt *LifetimeTracker) get(id string) *LifetimeStats {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	s, ok := lt.stats[id]
	if !ok {
		s = &LifetimeStats{Creature: id, seq: len(lt.stats)}
		lt.stats[id] = s
	}
	return s
}

func (lt *LifetimeTracker) update(id string, fn func(*LifetimeStats)) {
	lt.get(id)
	lt.mu.Lock()
	defer lt.mu.Unlock()
	fn(lt.stats[id])
}

// Get returns a copy of one creature's stats.
func (lt *LifetimeTracker) Get(id string) (LifetimeStats, bool) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	s, ok := lt.stats[id]
	if !ok {
		return LifetimeStats{}, false
	}
	return *s, true
}

// Summary returns copies of all stats in creation order.
func (lt *LifetimeTracker) Summary() []LifetimeStats {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	out := make([]LifetimeStats, 0, len(lt.stats))
	for _, s := range lt.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
