// Package dispatch translates caretaker commands into creature calls.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamago/caretaker/internal/creature"
	"github.com/tamago/caretaker/internal/data"
	"github.com/tamago/caretaker/internal/registry"
	"go.uber.org/zap"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNoAnswers     = errors.New("play needs an answer source")
)

// Action is a caretaker command.
type Action int

const (
	ActionFeed Action = iota + 1
	ActionClean
	ActionPlay
	ActionKill
	ActionStatus
)

var actionNames = map[Action]string{
	ActionFeed:   "feed",
	ActionClean:  "clean",
	ActionPlay:   "play",
	ActionKill:   "kill",
	ActionStatus: "status",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a command name to an Action.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, n := range actionNames {
		if n == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Request is one command against one creature.
type Request struct {
	ID      string
	Action  Action
	Food    string                // feed only; empty picks from the menu
	Answers creature.AnswerSource // play only
}

// Result carries the creature's answer back to the menu verbatim.
type Result struct {
	Action   Action
	ID       string
	Accepted bool                 // feed, clean, kill; play when the game happened
	Play     creature.PlayOutcome // play only
	Status   string               // status only
	Food     string               // feed only
}

// Menu chooses a food when a feed request names none.
type Menu interface {
	Pick() string
}

// Dispatcher is stateless apart from its collaborators.
type Dispatcher struct {
	reg  *registry.Registry
	menu Menu
	log  *zap.Logger
}

func New(reg *registry.Registry, menu Menu, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{reg: reg, menu: menu, log: log}
}

// Dispatch runs req. Errors only report an unknown creature, an unknown
// action or a play request without answers; busy and dead creatures come
// back as a Result with Accepted false.
func (d *Dispatcher) Dispatch(req Request) (Result, error) {
	c, err := d.reg.Get(req.ID)
	if err != nil {
		return Result{}, err
	}
	res := Result{Action: req.Action, ID: req.ID}

	switch req.Action {
	case ActionFeed:
		food := req.Food
		if food == "" && d.menu != nil {
			food = d.menu.Pick()
		}
		if food == "" {
			food = data.DefaultFood
		}
		res.Food = food
		res.Accepted = c.Feed(food)
	case ActionClean:
		res.Accepted = c.Clean()
	case ActionPlay:
		if req.Answers == nil {
			return Result{}, ErrNoAnswers
		}
		res.Play = c.Play(req.Answers)
		res.Accepted = res.Play.Accepted()
	case ActionKill:
		res.Accepted = c.Kill()
	case ActionStatus:
		res.Status = c.Snapshot().String()
		res.Accepted = true
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}

	d.log.Debug("dispatched",
		zap.String("creature", req.ID),
		zap.Stringer("action", req.Action),
		zap.Bool("accepted", res.Accepted))
	return res, nil
}

// Status renders the status line of one creature.
func (d *Dispatcher) Status(id string) (string, error) {
	res, err := d.Dispatch(Request{ID: id, Action: ActionStatus})
	if err != nil {
		return "", err
	}
	return res.Status, nil
}
