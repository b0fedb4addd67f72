package domain

// Task belongs to exactly one project and may nest under a parent task of
// the same project.
type Task struct {
	ID          int64
	ParentID    *int64
	ProjectID   int64
	Name        string
	Description string
	Period
	State State
}
