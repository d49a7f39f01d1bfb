package console

import "github.com/charmbracelet/lipgloss"

var (
	ColorAlive = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	ColorBusy  = lipgloss.AdaptiveColor{Light: "#e6b450", Dark: "#e6b450"}
	ColorDead  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorWarn  = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f26d78"}
)

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true)
	AliveStyle  = lipgloss.NewStyle().Foreground(ColorAlive)
	BusyStyle   = lipgloss.NewStyle().Foreground(ColorBusy)
	DeadStyle   = lipgloss.NewStyle().Foreground(ColorDead)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	PromptStyle = lipgloss.NewStyle().Bold(true)
)
