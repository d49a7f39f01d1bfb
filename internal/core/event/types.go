package event

import "time"

// Lifecycle events emitted by creatures. Phases and causes travel as their
// string names so this package stays free of simulation types.

type Born struct {
	Creature string
	EatFor   time.Duration
	At       time.Time
}

type Soiled struct {
	Creature string
	Level    int
	At       time.Time
}

// DirtWarning fires once when dirtiness reaches the warning threshold.
type DirtWarning struct {
	Creature string
	Level    int
	At       time.Time
}

// DeathDeferred fires when a creature should die but is busy.
type DeathDeferred struct {
	Creature string
	Cause    string
	Phase    string
	At       time.Time
}

type ActionStarted struct {
	Creature string
	Action   string // EATING, CLEANING, PLAYING
	Detail   string // food name for meals
	At       time.Time
}

type ActionEnded struct {
	Creature  string
	Action    string
	Completed bool // false when interrupted by death or cancellation
	At        time.Time
}

type PlayFinished struct {
	Creature string
	Outcome  string
	Attempts int
	At       time.Time
}

type Died struct {
	Creature string
	Cause    string
	Age      time.Duration
	At       time.Time
}
