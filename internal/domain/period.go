package domain

import "time"

// Period holds the optional start and finish timestamps of a project or task.
type Period struct {
	Start  *time.Time
	Finish *time.Time
}

// Transition returns the period that results from entering state to at now.
//
//   - InProgress: Start is set only when unset; Finish is cleared.
//   - Completed: Finish is set to now, Start is untouched.
//   - Planned: governed by policy.
//
// Task updates and state propagation both go through this function.
func (p Period) Transition(to State, now time.Time, policy PlannedPolicy) Period {
	switch to {
	case StateInProgress:
		if p.Start == nil {
			start := now
			p.Start = &start
		}
		p.Finish = nil
	case StateCompleted:
		finish := now
		p.Finish = &finish
	case StatePlanned:
		if policy == PlannedResets {
			p.Start = nil
			p.Finish = nil
		}
	}
	return p
}

// ActiveOn reports whether date falls strictly inside the period. A period
// without a start is never active; a missing finish means open-ended.
func (p Period) ActiveOn(date time.Time) bool {
	if p.Start == nil || !date.After(*p.Start) {
		return false
	}
	return p.Finish == nil || date.Before(*p.Finish)
}
