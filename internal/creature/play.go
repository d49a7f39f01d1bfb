package creature

import (
	"github.com/tamago/caretaker/internal/core/event"
	"go.uber.org/zap"
)

// AnswerSource supplies the caretaker's answers during a game. Answer blocks
// until one answer is available; any error (malformed input, closed input)
// ends the game.
type AnswerSource interface {
	Answer(prompt string) (int, error)
}

// PlayOutcome is how a call to Play ended.
type PlayOutcome int

const (
	PlayRejectedDead PlayOutcome = iota // creature was dead, nothing happened
	PlayRejectedBusy                    // creature was busy, nothing happened
	PlayWon                             // the caretaker answered correctly
	PlayBored                           // malformed answer, the creature gave up
	PlayInterrupted                     // the creature died mid-game
)

func (o PlayOutcome) String() string {
	switch o {
	case PlayRejectedDead:
		return "dead"
	case PlayRejectedBusy:
		return "busy"
	case PlayWon:
		return "won"
	case PlayBored:
		return "bored"
	case PlayInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Accepted reports whether the game actually took place.
func (o PlayOutcome) Accepted() bool {
	return o != PlayRejectedDead && o != PlayRejectedBusy
}

// Play runs a guessing game on the caller's goroutine. The creature is
// PLAYING for the whole game and goes back to IDLE afterwards unless it died.
// Liveness is rechecked before every prompt and after every answer, so a
// concurrent death ends the game at the next answer at the latest.
func (c *Creature) Play(answers AnswerSource) PlayOutcome {
	if prev, ok := c.begin(PhasePlaying, ""); !ok {
		if prev == PhaseDead {
			c.log.Info("is dead, cannot play")
			return PlayRejectedDead
		}
		c.log.Info("is busy, cannot play", zap.Stringer("phase", prev))
		return PlayRejectedBusy
	}
	c.log.Info("wants to play")

	outcome := PlayInterrupted
	attempts := 0
	for c.Alive() {
		a := c.deps.Rand.IntN(c.deps.OperandMax)
		b := c.deps.Rand.IntN(c.deps.OperandMax)
		prompt, want := c.deps.Challenge(a, b)
		attempts++

		got, err := answers.Answer(prompt)
		if !c.Alive() {
			break
		}
		if err != nil {
			c.log.Info("that is not a number, bored now", zap.Error(err))
			outcome = PlayBored
			break
		}
		if got == want {
			c.log.Info("correct, that was fun", zap.Int("attempts", attempts))
			outcome = PlayWon
			break
		}
		c.log.Info("wrong, let's play again", zap.Int("answer", got))
	}

	c.mu.Lock()
	c.end(PhasePlaying, outcome == PlayWon, nil)
	event.Emit(c.deps.Bus, event.PlayFinished{
		Creature: c.id,
		Outcome:  outcome.String(),
		Attempts: attempts,
		At:       c.deps.Clock.Now(),
	})
	c.mu.Unlock()
	return outcome
}
