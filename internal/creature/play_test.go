package creature

import (
	"sync"
	"testing"
	"time"
)

// scriptedAnswers replays canned answers; an error entry ends the game.
type scriptedAnswers struct {
	mu      sync.Mutex
	answers []any // int or error
	prompts []string
	onAsk   func()
}

func (s *scriptedAnswers) Answer(prompt string) (int, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	hook := s.onAsk
	var next any = errNotANumber
	if len(s.answers) > 0 {
		next, s.answers = s.answers[0], s.answers[1:]
	}
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err, ok := next.(error); ok {
		return 0, err
	}
	return next.(int), nil
}

func fixedChallenge(a, b int) (string, int) {
	return "What is 3 + 4?", 7
}

func TestPlayWinsAfterWrongAnswer(t *testing.T) {
	h := newHarness()
	h.deps.Challenge = fixedChallenge
	c := h.spawn(t, time.Hour)

	var during Phase
	src := &scriptedAnswers{answers: []any{1, 7}}
	src.onAsk = func() { during = c.Phase() }

	if out := c.Play(src); out != PlayWon {
		t.Fatalf("outcome = %s, want won", out)
	}
	if during != PhasePlaying {
		t.Errorf("phase while answering = %s, want PLAYING", during)
	}
	if len(src.prompts) != 2 || src.prompts[0] != "What is 3 + 4?" {
		t.Errorf("prompts = %v", src.prompts)
	}
	if p := c.Phase(); p != PhaseIdle {
		t.Errorf("phase after game = %s, want IDLE", p)
	}
}

func TestPlayMalformedAnswerEndsGame(t *testing.T) {
	h := newHarness()
	h.deps.Challenge = fixedChallenge
	c := h.spawn(t, time.Hour)

	src := &scriptedAnswers{answers: []any{errNotANumber}}
	if out := c.Play(src); out != PlayBored {
		t.Fatalf("outcome = %s, want bored", out)
	}
	if !PlayBored.Accepted() || PlayRejectedBusy.Accepted() {
		t.Error("Accepted()")
	}
	if s := c.Snapshot(); !s.Alive || s.Phase != PhaseIdle {
		t.Fatalf("after bored game: %+v", s)
	}
}

func TestPlayEndsWhenCreatureDies(t *testing.T) {
	h := newHarness()
	h.deps.Challenge = fixedChallenge
	c := h.spawn(t, time.Hour)

	src := &scriptedAnswers{answers: []any{7}}
	src.onAsk = c.ForceKill

	if out := c.Play(src); out != PlayInterrupted {
		t.Fatalf("outcome = %s, want interrupted", out)
	}
	if s := c.Snapshot(); s.Alive || s.Phase != PhaseDead {
		t.Fatalf("game resurrected the creature: %+v", s)
	}
}

func TestPlayBlocksOtherActions(t *testing.T) {
	h := newHarness()
	h.deps.Challenge = fixedChallenge
	c := h.spawn(t, time.Hour)

	var fed, cleaned, killed bool
	src := &scriptedAnswers{answers: []any{7}}
	src.onAsk = func() {
		fed = c.Feed("an apple")
		cleaned = c.Clean()
		killed = c.Kill()
	}
	if out := c.Play(src); out != PlayWon {
		t.Fatalf("outcome = %s", out)
	}
	if fed || cleaned || killed {
		t.Fatalf("actions accepted mid-game: feed=%t clean=%t kill=%t", fed, cleaned, killed)
	}
}

func TestPlayOperandsWithinRange(t *testing.T) {
	h := newHarness()
	h.deps.OperandMax = 3
	var seen [][2]int
	h.deps.Challenge = func(a, b int) (string, int) {
		seen = append(seen, [2]int{a, b})
		return SumChallenge(a, b)
	}
	c := h.spawn(t, time.Hour)

	src := &scriptedAnswers{answers: []any{-1, -1, -1, errNotANumber}}
	c.Play(src)

	if len(seen) != 4 {
		t.Fatalf("challenges = %d, want 4", len(seen))
	}
	for _, ops := range seen {
		if ops[0] < 0 || ops[0] >= 3 || ops[1] < 0 || ops[1] >= 3 {
			t.Errorf("operand out of range: %v", ops)
		}
	}
	if p, want := SumChallenge(2, 3); p != "What is 2 + 3?" || want != 5 {
		t.Errorf("SumChallenge = %q, %d", p, want)
	}
}
