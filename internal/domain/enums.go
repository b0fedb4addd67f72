package domain

import (
	"fmt"
	"strings"
)

// State is the lifecycle state shared by projects and tasks.
type State int

const (
	StatePlanned State = iota
	StateInProgress
	StateCompleted
)

var stateNames = map[State]string{
	StatePlanned:    "planned",
	StateInProgress: "in_progress",
	StateCompleted:  "completed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// ParseState accepts the canonical name ("in_progress"), a loose variant
// ("in-progress", "InProgress") or the numeric value ("1").
func ParseState(raw string) (State, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "planned", "0":
		return StatePlanned, nil
	case "in_progress", "inprogress", "1":
		return StateInProgress, nil
	case "completed", "2":
		return StateCompleted, nil
	}
	return StatePlanned, fmt.Errorf("unknown state %q (want planned, in_progress or completed)", raw)
}

func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	parsed, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PlannedPolicy decides what a transition back to Planned does to an
// existing period.
type PlannedPolicy int

const (
	// PlannedResets clears both timestamps.
	PlannedResets PlannedPolicy = iota
	// PlannedKeeps leaves the timestamps from the previous state in place.
	PlannedKeeps
)
