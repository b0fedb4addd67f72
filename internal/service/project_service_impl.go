package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/hierarchy"
	"github.com/alexanderramin/arbor/internal/repository"
)

type projectService struct {
	lifecycle
}

func NewProjectService(uow db.UnitOfWork, opts ...Option) ProjectService {
	return &projectService{lifecycle: newLifecycle(uow, opts)}
}

func (s *projectService) Create(ctx context.Context, req contract.ProjectCreateRequest) (_ *contract.ProjectResponse, err error) {
	ctx, done := s.begin(ctx, "project.create", map[string]any{"code": req.Code})
	defer func() { done(err) }()

	if err := contract.Validate(req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	project := req.ToProject()
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		return r.projects.Create(ctx, project)
	})
	if err != nil {
		return nil, &CreationError{Entity: "project", Err: err}
	}
	resp := contract.NewProjectResponse(project)
	return &resp, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*contract.ProjectResponse, error) {
	var resp contract.ProjectResponse
	err := s.within(ctx, func(ctx context.Context, r txRepos) error {
		p, err := r.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp = contract.NewProjectResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *projectService) List(ctx context.Context) ([]contract.ProjectResponse, error) {
	var out []contract.ProjectResponse
	err := s.within(ctx, func(ctx context.Context, r txRepos) error {
		projects, err := r.projects.List(ctx)
		if err != nil {
			return err
		}
		out = contract.NewProjectResponses(projects)
		return nil
	})
	return out, err
}

func (s *projectService) Update(ctx context.Context, id int64, req contract.ProjectUpdateRequest) (_ *contract.ProjectResponse, err error) {
	ctx, done := s.begin(ctx, "project.update", map[string]any{"project_id": id})
	defer func() { done(err) }()

	var resp contract.ProjectResponse
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		project, err := r.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := contract.Validate(req); err != nil {
			return &ValidationError{Err: err}
		}
		oldParent := project.ParentID

		req.ApplyTo(project)
		parentChanged := !domain.SameID(project.ParentID, oldParent)
		if parentChanged && project.ParentID != nil {
			if err := checkProjectParent(ctx, r.projects, project); err != nil {
				return &UpdateError{Entity: "project", ID: id, Err: err}
			}
		}

		if err := r.projects.Update(ctx, project); err != nil {
			return &UpdateError{Entity: "project", ID: id, Err: err}
		}

		if parentChanged {
			prop := s.propagator(r, s.now)
			if err := prop.PropagateFrom(ctx, project.ParentID); err != nil {
				return err
			}
			if err := prop.PropagateFrom(ctx, oldParent); err != nil {
				return err
			}
		}
		resp = contract.NewProjectResponse(project)
		return nil
	})
	if isCommitError(err) {
		return nil, &UpdateError{Entity: "project", ID: id, Err: err}
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// checkProjectParent rejects a parent that is the project itself or lies in
// its subtree.
func checkProjectParent(ctx context.Context, projects repository.ProjectRepo, project *domain.Project) error {
	parentID := *project.ParentID
	if _, err := projects.GetByID(ctx, parentID); err != nil {
		return fmt.Errorf("parent project: %w", err)
	}
	subtree, err := hierarchy.Subtree(ctx, project.ID, projectChildren(projects))
	if err != nil {
		return err
	}
	for _, id := range subtree {
		if id == parentID {
			return ErrHierarchyCycle
		}
	}
	return nil
}

func (s *projectService) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := s.begin(ctx, "project.delete", map[string]any{"project_id": id})
	defer func() { done(err) }()

	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		project, err := r.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		parentID := project.ParentID
		if err := r.projects.Delete(ctx, project.ID); err != nil {
			return err
		}
		return s.propagator(r, s.now).PropagateFrom(ctx, parentID)
	})
	if isCommitError(err) {
		return &UpdateError{Entity: "project", ID: id, Op: "deleting", Err: err}
	}
	return err
}

func (s *projectService) Recompute(ctx context.Context, id int64) (_ *contract.ProjectResponse, err error) {
	ctx, done := s.begin(ctx, "project.recompute", map[string]any{"project_id": id})
	defer func() { done(err) }()

	var resp contract.ProjectResponse
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		if _, err := r.projects.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.propagator(r, s.now).PropagateFrom(ctx, domain.IDPtr(id)); err != nil {
			return err
		}
		project, err := r.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp = contract.NewProjectResponse(project)
		return nil
	})
	if isCommitError(err) {
		return nil, &UpdateError{Entity: "project", ID: id, Op: "recomputing", Err: err}
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
