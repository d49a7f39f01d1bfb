package creature

// Phase is the single activity a creature is engaged in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEating
	PhasePlaying
	PhaseCleaning
	PhaseDead
)

var phaseNames = [...]string{
	PhaseIdle:     "IDLE",
	PhaseEating:   "EATING",
	PhasePlaying:  "PLAYING",
	PhaseCleaning: "CLEANING",
	PhaseDead:     "DEAD",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Busy reports whether the phase is one of the exclusive actions.
func (p Phase) Busy() bool {
	return p == PhaseEating || p == PhasePlaying || p == PhaseCleaning
}

// Cause records why a creature died.
type Cause int

const (
	CauseOldAge    Cause = iota + 1 // lifespan exceeded while idle
	CauseDirt                       // dirtiness reached the maximum while idle
	CauseKilled                     // caretaker kill on an idle creature
	CauseForced                     // shutdown force-kill
	CauseCancelled                  // lifecycle context cancelled
)

func (c Cause) String() string {
	switch c {
	case CauseOldAge:
		return "old age"
	case CauseDirt:
		return "dirt"
	case CauseKilled:
		return "killed"
	case CauseForced:
		return "forced"
	case CauseCancelled:
		return "cancelled"
	}
	return "unknown"
}
