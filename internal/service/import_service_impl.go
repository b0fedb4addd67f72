package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/importer"
)

type importService struct {
	lifecycle
}

func NewImportService(uow db.UnitOfWork, opts ...Option) ImportService {
	return &importService{lifecycle: newLifecycle(uow, opts)}
}

// Import stores the whole outline in one unit of work. Tasks with a non
// planned state get the timestamps that state implies, and every imported
// project's state is then derived from its tasks.
func (s *importService) Import(ctx context.Context, outline *importer.Outline) (_ *contract.ImportResult, err error) {
	ctx, done := s.begin(ctx, "outline.import", map[string]any{
		"projects": int64(len(outline.Projects)),
		"tasks":    int64(len(outline.Tasks)),
	})
	defer func() { done(err) }()

	if errs := importer.ValidateOutline(outline); len(errs) > 0 {
		return nil, &ValidationError{Err: errors.Join(errs...)}
	}
	plan := importer.Convert(outline)

	result := &contract.ImportResult{
		Projects: make(map[string]int64, len(plan.Projects)),
		Tasks:    make(map[string]int64, len(plan.Tasks)),
	}
	err = s.within(ctx, func(ctx context.Context, r txRepos) error {
		for _, pp := range plan.Projects {
			p := pp.Project
			if pp.ParentRef != "" {
				p.ParentID = domain.IDPtr(result.Projects[pp.ParentRef])
			}
			if err := r.projects.Create(ctx, p); err != nil {
				return fmt.Errorf("project %q: %w", pp.Ref, err)
			}
			result.Projects[pp.Ref] = p.ID
		}

		now := s.now()
		for _, pt := range plan.Tasks {
			t := pt.Task
			t.ProjectID = result.Projects[pt.ProjectRef]
			if pt.ParentRef != "" {
				t.ParentID = domain.IDPtr(result.Tasks[pt.ParentRef])
			}
			t.Period = t.Period.Transition(t.State, now, domain.PlannedResets)
			if err := r.tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("task %q: %w", pt.Ref, err)
			}
			result.Tasks[pt.Ref] = t.ID
		}

		prop := s.propagator(r, s.now)
		for i := len(plan.Projects) - 1; i >= 0; i-- {
			id := result.Projects[plan.Projects[i].Ref]
			if err := prop.PropagateFrom(ctx, domain.IDPtr(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &CreationError{Entity: "outline", Err: err}
	}
	return result, nil
}
