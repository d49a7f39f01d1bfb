package system

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tamago/caretaker/internal/core/event"
	coresys "github.com/tamago/caretaker/internal/core/system"
	"github.com/tamago/caretaker/internal/persist"
	"go.uber.org/zap"
)

// JournalSystem turns lifecycle events into journal rows and writes them in
// batches every flush interval. Phase 2 (Persist).
//
// A failed write keeps the batch and retries on the next flush; the pending
// buffer is capped so a dead database cannot grow it without bound.
type JournalSystem struct {
	writer   persist.JournalWriter
	session  string
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	pending []persist.JournalEntry
	elapsed time.Duration
	written int
	dropped int
}

const maxPendingJournal = 10_000

func NewJournalSystem(bus *event.Bus, writer persist.JournalWriter, session string, interval time.Duration, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{
		writer:   writer,
		session:  session,
		interval: interval,
		log:      log,
	}
	event.Subscribe(bus, func(ev event.Born) {
		s.record(ev.Creature, "born", "eats in "+ev.EatFor.String(), ev.At)
	})
	event.Subscribe(bus, func(ev event.Soiled) {
		s.record(ev.Creature, "soiled", strconv.Itoa(ev.Level), ev.At)
	})
	event.Subscribe(bus, func(ev event.DirtWarning) {
		s.record(ev.Creature, "dirt_warning", strconv.Itoa(ev.Level), ev.At)
	})
	event.Subscribe(bus, func(ev event.DeathDeferred) {
		s.record(ev.Creature, "death_deferred", ev.Cause+" while "+ev.Phase, ev.At)
	})
	event.Subscribe(bus, func(ev event.ActionStarted) {
		s.record(ev.Creature, "action_started", joinDetail(ev.Action, ev.Detail), ev.At)
	})
	event.Subscribe(bus, func(ev event.ActionEnded) {
		kind := "action_finished"
		if !ev.Completed {
			kind = "action_interrupted"
		}
		s.record(ev.Creature, kind, ev.Action, ev.At)
	})
	event.Subscribe(bus, func(ev event.PlayFinished) {
		s.record(ev.Creature, "play_finished", fmt.Sprintf("%s after %d", ev.Outcome, ev.Attempts), ev.At)
	})
	event.Subscribe(bus, func(ev event.Died) {
		s.record(ev.Creature, "died", ev.Cause, ev.At)
	})
	return s
}

func joinDetail(action, detail string) string {
	if detail == "" {
		return action
	}
	return action + ": " + detail
}

func (s *JournalSystem) record(creature, kind, detail string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) >= maxPendingJournal {
		s.dropped++
		return
	}
	s.pending = append(s.pending, persist.JournalEntry{
		SessionID: s.session,
		Creature:  creature,
		Kind:      kind,
		Detail:    detail,
		At:        at,
	})
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(dt time.Duration) {
	s.mu.Lock()
	s.elapsed += dt
	due := s.elapsed >= s.interval
	if due {
		s.elapsed = 0
	}
	s.mu.Unlock()
	if !due {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.log.Warn("journal flush failed, will retry", zap.Error(err))
	}
}

// Flush writes everything pending right now, oldest first.
func (s *JournalSystem) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	sort.SliceStable(batch, func(i, j int) bool { return batch[i].At.Before(batch[j].At) })
	if err := s.writer.Write(ctx, batch); err != nil {
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.written += len(batch)
	s.mu.Unlock()
	s.log.Debug("journal flushed", zap.Int("entries", len(batch)))
	return nil
}

// Counts reports rows written, rows still pending and rows dropped.
func (s *JournalSystem) Counts() (written, pending, dropped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written, len(s.pending), s.dropped
}
