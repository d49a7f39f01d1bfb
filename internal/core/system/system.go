package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseDispatch Phase = iota // 0: swap the event bus and deliver last tick's events
	PhaseUpdate                // 1: bookkeeping driven by delivered events
	PhasePersist               // 2: journal flush
)

// System is the interface every runner system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
