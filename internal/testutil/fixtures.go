package testutil

import (
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithParentProject(id int64) ProjectOption {
	return func(p *domain.Project) {
		p.ParentID = &id
	}
}

func WithProjectName(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Name = name
	}
}

func WithProjectState(s domain.State) ProjectOption {
	return func(p *domain.Project) {
		p.State = s
	}
}

func WithProjectPeriod(start, finish *time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.Start = start
		p.Finish = finish
	}
}

// NewTestProject returns an unsaved Planned project named after its code.
func NewTestProject(code string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		Code:  code,
		Name:  code + " project",
		State: domain.StatePlanned,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithParentTask(id int64) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

func WithTaskState(s domain.State) TaskOption {
	return func(t *domain.Task) {
		t.State = s
	}
}

func WithTaskDescription(d string) TaskOption {
	return func(t *domain.Task) {
		t.Description = d
	}
}

func WithTaskPeriod(start, finish *time.Time) TaskOption {
	return func(t *domain.Task) {
		t.Start = start
		t.Finish = finish
	}
}

// NewTestTask returns an unsaved Planned task owned by projectID.
func NewTestTask(projectID int64, name string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ProjectID:   projectID,
		Name:        name,
		Description: name + " description",
		State:       domain.StatePlanned,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
