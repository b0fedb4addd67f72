package contract

import "time"

// ActiveProject is one row of the active-on-date report: a project whose
// period contains the date, with those of its own tasks that do too.
type ActiveProject struct {
	Project ProjectResponse `json:"project"`
	Tasks   []TaskResponse  `json:"tasks"`
}

type ActiveReport struct {
	Date     time.Time       `json:"date"`
	Projects []ActiveProject `json:"projects"`
}
