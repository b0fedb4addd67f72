package contract

import (
	"fmt"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
)

// TaskCreateRequest describes a new task. State and timestamps may be sent
// but are ignored: every task starts Planned with no timestamps.
type TaskCreateRequest struct {
	ParentID    *int64     `json:"parent_id,omitempty" validate:"omitnil,gt=0" doc:"Parent task id"`
	ProjectID   int64      `json:"project_id" validate:"required,gt=0"`
	Name        string     `json:"name" validate:"required,max=255" minLength:"1" maxLength:"255"`
	Description string     `json:"description" validate:"required,max=255" minLength:"1" maxLength:"255"`
	State       *string    `json:"state,omitempty" enum:"planned,in_progress,completed" doc:"Ignored, tasks start planned"`
	Start       *time.Time `json:"start,omitempty" doc:"Ignored"`
	Finish      *time.Time `json:"finish,omitempty" doc:"Ignored"`
}

func (r TaskCreateRequest) ToTask() *domain.Task {
	t := &domain.Task{
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		Description: r.Description,
		State:       domain.StatePlanned,
	}
	reparent(&t.ParentID, r.ParentID)
	return t
}

// TaskUpdateRequest overwrites the present task fields. parent_id 0 detaches
// the task from its parent.
type TaskUpdateRequest struct {
	ParentID    *int64  `json:"parent_id,omitempty" validate:"omitnil,gte=0" doc:"New parent task id, 0 for none"`
	ProjectID   *int64  `json:"project_id,omitempty" validate:"omitnil,gt=0"`
	Name        *string `json:"name,omitempty" validate:"omitnil,min=1,max=255" minLength:"1" maxLength:"255"`
	Description *string `json:"description,omitempty" validate:"omitnil,min=1,max=255" minLength:"1" maxLength:"255"`
	State       *string `json:"state,omitempty" enum:"planned,in_progress,completed"`
}

// ApplyTo overwrites the present fields of t. Timestamps are not touched
// here; they follow from the state.
func (r TaskUpdateRequest) ApplyTo(t *domain.Task) error {
	state, err := parseOptionalState(r.State)
	if err != nil {
		return fmt.Errorf("task update: %w", err)
	}
	if state != nil {
		t.State = *state
	}
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.ProjectID != nil {
		t.ProjectID = *r.ProjectID
	}
	reparent(&t.ParentID, r.ParentID)
	return nil
}

type TaskResponse struct {
	ID          int64      `json:"id"`
	ParentID    *int64     `json:"parent_id"`
	ProjectID   int64      `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Start       *time.Time `json:"start"`
	Finish      *time.Time `json:"finish"`
	State       string     `json:"state" enum:"planned,in_progress,completed"`
}

func NewTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Name:        t.Name,
		Description: t.Description,
		Start:       copyTime(t.Start),
		Finish:      copyTime(t.Finish),
		State:       t.State.String(),
	}
	if t.ParentID != nil {
		resp.ParentID = domain.IDPtr(*t.ParentID)
	}
	return resp
}

func NewTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}
