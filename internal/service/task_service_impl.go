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

type taskService struct {
	lifecycle
}

func NewTaskService(uow db.UnitOfWork, opts ...Option) TaskService {
	return &taskService{lifecycle: newLifecycle(uow, opts)}
}

func (s *taskService) Create(ctx context.Context, req contract.TaskCreateRequest) (_ *contract.TaskResponse, err error) {
	ctx, done := s.begin(ctx, "task.create", map[string]any{"project_id": req.ProjectID})
	defer func() { done(err) }()

	if err := contract.Validate(req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	task := req.ToTask()
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		if task.ParentID != nil {
			parent, err := r.tasks.GetByID(ctx, *task.ParentID)
			if err != nil {
				return fmt.Errorf("parent task: %w", err)
			}
			if parent.ProjectID != task.ProjectID {
				return fmt.Errorf("parent task %d is in project %d: %w", parent.ID, parent.ProjectID, ErrProjectMismatch)
			}
		}
		return r.tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, &CreationError{Entity: "task", Err: err}
	}
	resp := contract.NewTaskResponse(task)
	return &resp, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*contract.TaskResponse, error) {
	var resp contract.TaskResponse
	err := s.within(ctx, func(ctx context.Context, r txRepos) error {
		t, err := r.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp = contract.NewTaskResponse(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *taskService) List(ctx context.Context) ([]contract.TaskResponse, error) {
	var out []contract.TaskResponse
	err := s.within(ctx, func(ctx context.Context, r txRepos) error {
		tasks, err := r.tasks.List(ctx)
		if err != nil {
			return err
		}
		out = contract.NewTaskResponses(tasks)
		return nil
	})
	return out, err
}

func (s *taskService) Update(ctx context.Context, id int64, req contract.TaskUpdateRequest) (_ *contract.TaskResponse, err error) {
	ctx, done := s.begin(ctx, "task.update", map[string]any{"task_id": id})
	defer func() { done(err) }()

	var resp contract.TaskResponse
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		task, err := r.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := contract.Validate(req); err != nil {
			return &ValidationError{Err: err}
		}
		oldProject := task.ProjectID
		oldParent := task.ParentID

		if err := req.ApplyTo(task); err != nil {
			return &ValidationError{Err: err}
		}
		task.Period = task.Period.Transition(task.State, s.now(), domain.PlannedResets)

		projectChanged := task.ProjectID != oldProject
		if projectChanged || !domain.SameID(task.ParentID, oldParent) {
			if err := s.checkTaskPlacement(ctx, r.tasks, task, projectChanged); err != nil {
				return &UpdateError{Entity: "task", ID: id, Err: err}
			}
		}

		if err := r.tasks.Update(ctx, task); err != nil {
			return &UpdateError{Entity: "task", ID: id, Err: err}
		}

		prop := s.propagator(r, s.now)
		if projectChanged {
			if err := prop.PropagateFrom(ctx, domain.IDPtr(oldProject)); err != nil {
				return err
			}
		}
		if err := prop.PropagateFrom(ctx, domain.IDPtr(task.ProjectID)); err != nil {
			return err
		}
		resp = contract.NewTaskResponse(task)
		return nil
	})
	if isCommitError(err) {
		return nil, &UpdateError{Entity: "task", ID: id, Err: err}
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// checkTaskPlacement rejects a move that would split a task hierarchy across
// projects or hang a task below itself. Descendants are only walked when the
// project changed or the parent may be one of them.
func (s *taskService) checkTaskPlacement(ctx context.Context, tasks repository.TaskRepo, task *domain.Task, projectChanged bool) error {
	if task.ParentID != nil {
		if *task.ParentID == task.ID {
			return ErrHierarchyCycle
		}
		parent, err := tasks.GetByID(ctx, *task.ParentID)
		if err != nil {
			return fmt.Errorf("parent task: %w", err)
		}
		if parent.ProjectID != task.ProjectID {
			return fmt.Errorf("parent task %d is in project %d: %w", parent.ID, parent.ProjectID, ErrProjectMismatch)
		}
	}

	descendants, err := hierarchy.Descendants(ctx, task.ID, taskChildren(tasks))
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if task.ParentID != nil && d == *task.ParentID {
			return ErrHierarchyCycle
		}
	}
	if !projectChanged || len(descendants) == 0 {
		return nil
	}
	for _, d := range descendants {
		child, err := tasks.GetByID(ctx, d)
		if err != nil {
			return err
		}
		if child.ProjectID != task.ProjectID {
			return fmt.Errorf("descendant task %d is in project %d: %w", child.ID, child.ProjectID, ErrProjectMismatch)
		}
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := s.begin(ctx, "task.delete", map[string]any{"task_id": id})
	defer func() { done(err) }()

	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		task, err := r.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		projectID := task.ProjectID

		err = hierarchy.PostOrder(ctx, task.ID, taskChildren(r.tasks), func(ctx context.Context, node int64) error {
			return r.tasks.Delete(ctx, node)
		})
		if err != nil {
			return err
		}
		return s.propagator(r, s.now).PropagateFrom(ctx, domain.IDPtr(projectID))
	})
	if isCommitError(err) {
		return &UpdateError{Entity: "task", ID: id, Op: "deleting", Err: err}
	}
	return err
}

func taskChildren(tasks repository.TaskRepo) hierarchy.ChildrenFunc[int64] {
	return func(ctx context.Context, parentID int64) ([]int64, error) {
		kids, err := tasks.ListChildren(ctx, parentID)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, len(kids))
		for i, k := range kids {
			ids[i] = k.ID
		}
		return ids, nil
	}
}
