package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/tamago/caretaker/internal/creature"
	"github.com/tamago/caretaker/internal/system"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NewPrinter returns a printer for a BCP 47 tag, falling back to English.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// Report prints the status line of every creature, living or not.
func (m *Menu) Report() {
	WriteReport(m.out, m.p, m.reg.Snapshots())
}

func WriteReport(w io.Writer, p *message.Printer, snaps []creature.Snapshot) {
	alive := 0
	for _, s := range snaps {
		if s.Alive {
			alive++
		}
	}
	fmt.Fprintln(w, TitleStyle.Render(p.Sprintf("%d of %d creatures alive", alive, len(snaps))))
	for _, s := range snaps {
		line := p.Sprintf("[%s] | alive: %-5t | phase: %-8s | dirt: %d/%d | age: %.1f / %.1fs",
			s.ID, s.Alive, s.Phase.String(), s.Dirt, s.MaxDirt, s.Age.Seconds(), s.MaxAge.Seconds())
		fmt.Fprintln(w, styleFor(s).Render(line))
	}
}

func styleFor(s creature.Snapshot) lipgloss.Style {
	switch {
	case !s.Alive:
		return DeadStyle
	case s.Phase.Busy():
		return BusyStyle
	case s.Dirt >= s.MaxDirt/2:
		return WarnStyle
	}
	return AliveStyle
}

// WriteSummary prints what each creature did in its life.
func WriteSummary(w io.Writer, p *message.Printer, stats []system.LifetimeStats) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(w, TitleStyle.Render("Life stories"))
	for _, s := range stats {
		fate := "still alive"
		if s.Cause != "" {
			fate = p.Sprintf("died of %s at %.1fs", s.Cause, s.Age.Seconds())
		}
		fmt.Fprintln(w, p.Sprintf("  %s: %d meals, %d baths, won %d of %d games in %d tries, peak dirt %d, %s",
			s.Creature, s.Meals, s.Baths, s.GamesWon, s.Games, s.Attempts, s.PeakDirt, fate))
	}
}
