package contract

import (
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
)

type ProjectCreateRequest struct {
	ParentID *int64 `json:"parent_id,omitempty" validate:"omitnil,gt=0" doc:"Parent project id"`
	Code     string `json:"code" validate:"required,max=255" minLength:"1" maxLength:"255"`
	Name     string `json:"name" validate:"required,max=255" minLength:"1" maxLength:"255"`
}

// ToProject maps the request onto a new Planned project with no timestamps.
func (r ProjectCreateRequest) ToProject() *domain.Project {
	p := &domain.Project{
		Code:  r.Code,
		Name:  r.Name,
		State: domain.StatePlanned,
	}
	reparent(&p.ParentID, r.ParentID)
	return p
}

// ProjectUpdateRequest carries the client-writable project fields. Absent
// fields are left untouched; parent_id 0 moves the project to the root.
type ProjectUpdateRequest struct {
	ParentID *int64  `json:"parent_id,omitempty" validate:"omitnil,gte=0" doc:"New parent project id, 0 for none"`
	Code     *string `json:"code,omitempty" validate:"omitnil,min=1,max=255" minLength:"1" maxLength:"255"`
	Name     *string `json:"name,omitempty" validate:"omitnil,min=1,max=255" minLength:"1" maxLength:"255"`
}

// ApplyTo overwrites the present fields of p. State and timestamps are
// never client-writable.
func (r ProjectUpdateRequest) ApplyTo(p *domain.Project) {
	reparent(&p.ParentID, r.ParentID)
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
}

type ProjectResponse struct {
	ID       int64      `json:"id"`
	ParentID *int64     `json:"parent_id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Start    *time.Time `json:"start"`
	Finish   *time.Time `json:"finish"`
	State    string     `json:"state" enum:"planned,in_progress,completed"`
}

func NewProjectResponse(p *domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:     p.ID,
		Code:   p.Code,
		Name:   p.Name,
		Start:  copyTime(p.Start),
		Finish: copyTime(p.Finish),
		State:  p.State.String(),
	}
	if p.ParentID != nil {
		resp.ParentID = domain.IDPtr(*p.ParentID)
	}
	return resp
}

func NewProjectResponses(projects []*domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProjectResponse(p))
	}
	return out
}
