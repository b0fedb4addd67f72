package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/hierarchy"
	"github.com/alexanderramin/arbor/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type stateAggregator struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

// NewStateAggregator derives project states from the given repositories.
func NewStateAggregator(projects repository.ProjectRepo, tasks repository.TaskRepo) StateAggregator {
	return &stateAggregator{projects: projects, tasks: tasks}
}

func (a *stateAggregator) ComputeProjectState(ctx context.Context, projectID int64) (domain.State, error) {
	ids, err := hierarchy.Subtree(ctx, projectID, projectChildren(a.projects))
	if err != nil {
		return domain.StatePlanned, err
	}
	tasks, err := a.tasks.ListByProjectIDs(ctx, ids)
	if err != nil {
		return domain.StatePlanned, err
	}
	return hierarchy.Aggregate(hierarchy.TaskStates(tasks)), nil
}

func projectChildren(projects repository.ProjectRepo) hierarchy.ChildrenFunc[int64] {
	return func(ctx context.Context, parentID int64) ([]int64, error) {
		kids, err := projects.ListChildren(ctx, parentID)
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

type statePropagator struct {
	projects   repository.ProjectRepo
	aggregator StateAggregator
	now        func() time.Time
}

// NewStatePropagator walks project states upward, writing through projects.
func NewStatePropagator(projects repository.ProjectRepo, aggregator StateAggregator, now func() time.Time) StatePropagator {
	if now == nil {
		now = time.Now
	}
	return &statePropagator{projects: projects, aggregator: aggregator, now: now}
}

func newPropagatorFor(r txRepos, now func() time.Time) StatePropagator {
	return NewStatePropagator(r.projects, NewStateAggregator(r.projects, r.tasks), now)
}

func (p *statePropagator) PropagateFrom(ctx context.Context, projectID *int64) error {
	if projectID == nil {
		return nil
	}
	visited := 0
	defer func() { recordPropagation(ctx, visited) }()

	seen := map[int64]bool{}
	for id := projectID; id != nil && !seen[*id]; {
		seen[*id] = true
		visited++
		next, err := p.step(ctx, *id)
		if err != nil {
			return err
		}
		id = next
	}
	return nil
}

// step re-aggregates one project. It returns the parent to continue with, or
// nil when the state did not change.
func (p *statePropagator) step(ctx context.Context, id int64) (_ *int64, err error) {
	ctx, span := tracer.Start(ctx, "propagate.step", trace.WithAttributes(attribute.Int64("project_id", id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	project, err := p.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("propagating state: %w", err)
	}
	state, err := p.aggregator.ComputeProjectState(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("aggregating project %d: %w", project.ID, err)
	}
	span.SetAttributes(
		attribute.String("state.from", project.State.String()),
		attribute.String("state.to", state.String()),
	)
	if state == project.State {
		return nil, nil
	}

	project.Period = project.Period.Transition(state, p.now(), domain.PlannedKeeps)
	project.State = state
	if err := p.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("writing project %d state: %w", project.ID, err)
	}
	recordTransition(ctx, state)
	return project.ParentID, nil
}
