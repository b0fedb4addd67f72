package hierarchy

import "github.com/alexanderramin/arbor/internal/domain"

// Aggregate derives a project's state from the states of every task under
// it, sub-projects included. Rules, first match wins:
//
//  1. at least one task and all Completed: Completed
//  2. any task InProgress: InProgress
//  3. otherwise Planned (no tasks, all Planned, or Planned mixed with Completed)
func Aggregate(states []domain.State) domain.State {
	if len(states) == 0 {
		return domain.StatePlanned
	}
	allCompleted := true
	anyInProgress := false
	for _, s := range states {
		if s != domain.StateCompleted {
			allCompleted = false
		}
		if s == domain.StateInProgress {
			anyInProgress = true
		}
	}
	switch {
	case allCompleted:
		return domain.StateCompleted
	case anyInProgress:
		return domain.StateInProgress
	default:
		return domain.StatePlanned
	}
}

// TaskStates extracts the state of each task.
func TaskStates(tasks []*domain.Task) []domain.State {
	states := make([]domain.State, len(tasks))
	for i, t := range tasks {
		states[i] = t.State
	}
	return states
}
