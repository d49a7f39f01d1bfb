package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamago/caretaker/internal/clock"
	"github.com/tamago/caretaker/internal/config"
	"github.com/tamago/caretaker/internal/creature"
	"go.uber.org/zap"
)

func testDeps() *creature.Deps {
	return &creature.Deps{
		Lifecycle: config.LifecycleConfig{
			TickInterval:  5 * time.Millisecond,
			MaxLifespan:   time.Hour,
			DirtInterval:  time.Hour,
			CleanDuration: 20 * time.Millisecond,
			MaxDirt:       10,
			DirtWarning:   5,
			EatMin:        3 * time.Second,
			EatMax:        8 * time.Second,
		},
		OperandMax: 5,
		Rand:       clock.Seeded(7),
		Log:        zap.NewNop(),
	}
}

func newRegistry(t *testing.T, opts Options) *Registry {
	t.Helper()
	r := New(context.Background(), testDeps(), opts)
	t.Cleanup(r.Shutdown)
	return r
}

func TestPopulateAssignsSequentialIDs(t *testing.T) {
	r := newRegistry(t, Options{})
	created, err := r.Populate(3)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if len(created) != 3 || r.Len() != 3 {
		t.Fatalf("created %d, len %d", len(created), r.Len())
	}

	var ids []string
	for i, e := range r.List() {
		if e.ID != created[i].ID() {
			t.Errorf("List order mismatch at %d: %s vs %s", i, e.ID, created[i].ID())
		}
		if !e.Alive {
			t.Errorf("%s not alive", e.ID)
		}
		ids = append(ids, e.ID)
	}
	want := []string{"entity-0", "entity-1", "entity-2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	// more creatures continue the sequence
	more, err := r.Populate(1)
	if err != nil || more[0].ID() != "entity-3" {
		t.Fatalf("second Populate = %v, %v", more, err)
	}
}

func TestPopulateEatDurationsWithinRange(t *testing.T) {
	r := newRegistry(t, Options{IDPrefix: "tama"})
	created, err := r.Populate(20)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	for _, c := range created {
		d := c.EatDuration()
		if d < 3*time.Second || d > 8*time.Second {
			t.Errorf("%s eats for %s, outside [3s, 8s]", c.ID(), d)
		}
	}
	if created[0].ID() != "tama-0" {
		t.Errorf("prefix not applied: %s", created[0].ID())
	}
}

func TestPopulateClampsCustomDuration(t *testing.T) {
	r := newRegistry(t, Options{EatDuration: func(lo, hi time.Duration, roll float64) time.Duration {
		return hi * 10
	}})
	created, err := r.Populate(1)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if d := created[0].EatDuration(); d != 8*time.Second {
		t.Fatalf("eat duration = %s, want clamp to 8s", d)
	}
}

func TestListIsRestartableAndLazy(t *testing.T) {
	r := newRegistry(t, Options{})
	if _, err := r.Populate(2); err != nil {
		t.Fatal(err)
	}
	seq := r.List()

	count := 0
	for range seq {
		count++
	}
	c, _ := r.At(1)
	c.Kill()

	alive := map[string]bool{}
	for _, e := range seq {
		alive[e.ID] = e.Alive
	}
	if count != 2 || len(alive) != 2 {
		t.Fatalf("count=%d second pass=%v", count, alive)
	}
	if alive["entity-1"] {
		t.Error("second pass did not see the kill")
	}

	// early break stops iteration
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("break not honoured, n=%d", n)
	}
}

func TestLookupAndDuplicates(t *testing.T) {
	r := newRegistry(t, Options{})
	if _, err := r.Create("rex", time.Second); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create("rex", time.Second); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate create err = %v", err)
	}
	if c, err := r.Get("rex"); err != nil || c.ID() != "rex" {
		t.Errorf("Get = %v, %v", c, err)
	}
	if _, err := r.Get("nobody"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("Get unknown err = %v", err)
	}
	if _, err := r.At(5); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("At out of range err = %v", err)
	}
}

func TestAllDead(t *testing.T) {
	r := newRegistry(t, Options{})
	if r.AllDead() {
		t.Fatal("empty registry reported all dead")
	}
	created, _ := r.Populate(2)
	if r.AllDead() {
		t.Fatal("living creatures reported dead")
	}
	created[0].Kill()
	if r.AllDead() {
		t.Fatal("one survivor left")
	}
	created[1].Kill()
	if !r.AllDead() {
		t.Fatal("expected all dead")
	}
}

func TestShutdownKillsEverybody(t *testing.T) {
	r := newRegistry(t, Options{})
	created, err := r.Populate(3)
	if err != nil {
		t.Fatal(err)
	}
	if !created[1].Feed("an apple") {
		t.Fatal("Feed failed")
	}

	done := make(chan struct{})
	go func() {
		r.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return; a task is still running")
	}

	for _, s := range r.Snapshots() {
		if s.Alive || s.Phase != creature.PhaseDead {
			t.Errorf("%s after shutdown: %+v", s.ID, s)
		}
	}
	if !r.AllDead() {
		t.Error("AllDead false after shutdown")
	}

	r.Shutdown() // idempotent
	if _, err := r.Create("late", time.Second); !errors.Is(err, ErrShutdown) {
		t.Errorf("Create after shutdown err = %v", err)
	}
}

func TestShutdownWithNoCreatures(t *testing.T) {
	r := New(context.Background(), testDeps(), Options{})
	r.Shutdown()
	if r.AllDead() {
		t.Error("empty registry reported all dead after shutdown")
	}
}

func TestCreaturesIterator(t *testing.T) {
	r := newRegistry(t, Options{})
	r.Populate(3)
	n := 0
	for c := range r.Creatures() {
		if c == nil {
			t.Fatal("nil creature")
		}
		n++
	}
	if n != 3 {
		t.Fatalf("iterated %d creatures", n)
	}
}

func TestLinearDuration(t *testing.T) {
	if d := LinearDuration(2*time.Second, 4*time.Second, 0.5); d != 3*time.Second {
		t.Fatalf("LinearDuration = %s", d)
	}
}
