// Package console is the caretaker's line-oriented front end: the action
// menu, creature selection and the status report.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tamago/caretaker/internal/creature"
	"github.com/tamago/caretaker/internal/dispatch"
	"github.com/tamago/caretaker/internal/registry"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

type choice int

const (
	choiceFeed choice = iota + 1
	choiceClean
	choicePlay
	choiceStatus
	choiceKill
	choiceQuit
)

var choiceActions = map[choice]dispatch.Action{
	choiceFeed:  dispatch.ActionFeed,
	choiceClean: dispatch.ActionClean,
	choicePlay:  dispatch.ActionPlay,
	choiceKill:  dispatch.ActionKill,
}

// Menu drives the caretaker session.
type Menu struct {
	in   *Input
	out  io.Writer
	reg  *registry.Registry
	disp *dispatch.Dispatcher
	p    *message.Printer
	log  *zap.Logger
}

func NewMenu(in *Input, out io.Writer, reg *registry.Registry, disp *dispatch.Dispatcher, p *message.Printer, log *zap.Logger) *Menu {
	if log == nil {
		log = zap.NewNop()
	}
	return &Menu{in: in, out: out, reg: reg, disp: disp, p: p, log: log}
}

// AskCount asks how many creatures to hatch until it gets a positive number.
func (m *Menu) AskCount() (int, error) {
	for {
		n, err := m.in.Int("How many creatures would you like to take care of?")
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return n, nil
		}
		fmt.Fprintln(m.out, WarnStyle.Render("you need at least one creature"))
	}
}

// Run shows the menu until the caretaker quits, input ends, ctx is cancelled
// or every creature is dead.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if m.reg.AllDead() {
			fmt.Fprintln(m.out, WarnStyle.Render("All your creatures have died."))
			return nil
		}

		m.printMenu()
		n, err := m.in.Int("Your choice:")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read choice: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}

		switch c := choice(n); c {
		case choiceQuit:
			return nil
		case choiceStatus:
			m.Report()
		case choiceFeed, choiceClean, choicePlay, choiceKill:
			if err := m.act(choiceActions[c]); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		default:
			fmt.Fprintln(m.out, WarnStyle.Render("no such option"))
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, TitleStyle.Render("What would you like to do?"))
	fmt.Fprintln(m.out, "  1) feed   2) clean   3) play")
	fmt.Fprintln(m.out, "  4) status of all     5) kill   6) quit")
}

func (m *Menu) act(action dispatch.Action) error {
	id, ok, err := m.selectCreature()
	if err != nil || !ok {
		return err
	}

	res, err := m.disp.Dispatch(dispatch.Request{ID: id, Action: action, Answers: m.in})
	if err != nil {
		// The creature was listed a moment ago, so this is a programming error.
		m.log.Error("dispatch failed", zap.String("creature", id), zap.Error(err))
		return fmt.Errorf("%s %s: %w", action, id, err)
	}
	fmt.Fprintln(m.out, describe(res))
	return nil
}

// selectCreature lists the living creatures by registry index and reads one.
// Unknown indexes and creatures that are dead by the time of the answer are
// rejected with ok false.
func (m *Menu) selectCreature() (id string, ok bool, err error) {
	fmt.Fprintln(m.out, TitleStyle.Render("Which creature?"))
	living := 0
	for i, e := range m.reg.List() {
		if !e.Alive {
			continue
		}
		fmt.Fprintf(m.out, "  [%d] %s\n", i, e.ID)
		living++
	}
	if living == 0 {
		fmt.Fprintln(m.out, WarnStyle.Render("nobody is alive"))
		return "", false, nil
	}

	n, err := m.in.Int("Number:")
	if err != nil {
		return "", false, err
	}
	c, err := m.reg.At(n)
	if err != nil || !c.Alive() {
		fmt.Fprintln(m.out, WarnStyle.Render(fmt.Sprintf("no living creature with number %d", n)))
		return "", false, nil
	}
	return c.ID(), true, nil
}

func describe(res dispatch.Result) string {
	switch res.Action {
	case dispatch.ActionFeed:
		if res.Accepted {
			return AliveStyle.Render(fmt.Sprintf("%s starts eating %s.", res.ID, res.Food))
		}
		return BusyStyle.Render(fmt.Sprintf("%s cannot eat right now.", res.ID))
	case dispatch.ActionClean:
		if res.Accepted {
			return AliveStyle.Render(fmt.Sprintf("%s is taking a bath.", res.ID))
		}
		return BusyStyle.Render(fmt.Sprintf("%s cannot take a bath right now.", res.ID))
	case dispatch.ActionKill:
		if res.Accepted {
			return DeadStyle.Render(fmt.Sprintf("%s is no more.", res.ID))
		}
		return BusyStyle.Render(fmt.Sprintf("%s is busy and escapes its fate.", res.ID))
	case dispatch.ActionPlay:
		switch res.Play {
		case creature.PlayWon:
			return AliveStyle.Render(fmt.Sprintf("%s had fun playing with you!", res.ID))
		case creature.PlayBored:
			return BusyStyle.Render(fmt.Sprintf("%s got bored and wandered off.", res.ID))
		case creature.PlayInterrupted:
			return DeadStyle.Render(fmt.Sprintf("%s died during the game.", res.ID))
		case creature.PlayRejectedBusy:
			return BusyStyle.Render(fmt.Sprintf("%s is too busy to play.", res.ID))
		default:
			return DeadStyle.Render(fmt.Sprintf("%s cannot play anymore.", res.ID))
		}
	}
	return res.Status
}
