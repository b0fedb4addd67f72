package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/repository"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// callCounts records store and engine activity across units of work.
type callCounts struct {
	projectGets   int
	writes        int
	taskDeletes   int
	propagations  []*int64
	aggregations  map[int64]int
	projectWrites []int64
}

func (c *callCounts) reset() {
	*c = callCounts{aggregations: map[int64]int{}}
}

type countingProjects struct {
	repository.ProjectRepo
	c *callCounts
}

func (r *countingProjects) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	r.c.projectGets++
	return r.ProjectRepo.GetByID(ctx, id)
}

func (r *countingProjects) Create(ctx context.Context, p *domain.Project) error {
	r.c.writes++
	return r.ProjectRepo.Create(ctx, p)
}

func (r *countingProjects) Update(ctx context.Context, p *domain.Project) error {
	r.c.writes++
	r.c.projectWrites = append(r.c.projectWrites, p.ID)
	return r.ProjectRepo.Update(ctx, p)
}

func (r *countingProjects) Delete(ctx context.Context, id int64) error {
	r.c.writes++
	return r.ProjectRepo.Delete(ctx, id)
}

type countingTasks struct {
	repository.TaskRepo
	c *callCounts
}

func (r *countingTasks) Create(ctx context.Context, t *domain.Task) error {
	r.c.writes++
	return r.TaskRepo.Create(ctx, t)
}

func (r *countingTasks) Update(ctx context.Context, t *domain.Task) error {
	r.c.writes++
	return r.TaskRepo.Update(ctx, t)
}

func (r *countingTasks) Delete(ctx context.Context, id int64) error {
	r.c.writes++
	r.c.taskDeletes++
	return r.TaskRepo.Delete(ctx, id)
}

type countingAggregator struct {
	inner StateAggregator
	c     *callCounts
}

func (a *countingAggregator) ComputeProjectState(ctx context.Context, projectID int64) (domain.State, error) {
	a.c.aggregations[projectID]++
	return a.inner.ComputeProjectState(ctx, projectID)
}

type recordingPropagator struct {
	inner StatePropagator
	c     *callCounts
}

func (p *recordingPropagator) PropagateFrom(ctx context.Context, projectID *int64) error {
	p.c.propagations = append(p.c.propagations, projectID)
	return p.inner.PropagateFrom(ctx, projectID)
}

// instrument swaps the lifecycle's repositories and propagator for counting
// wrappers around the real SQLite implementations.
func instrument(l *lifecycle, c *callCounts) {
	l.repos = func(tx db.DBTX) txRepos {
		r := sqliteRepos(tx)
		return txRepos{
			projects: &countingProjects{ProjectRepo: r.projects, c: c},
			tasks:    &countingTasks{TaskRepo: r.tasks, c: c},
		}
	}
	l.propagator = func(r txRepos, now func() time.Time) StatePropagator {
		agg := &countingAggregator{inner: NewStateAggregator(r.projects, r.tasks), c: c}
		return &recordingPropagator{inner: NewStatePropagator(r.projects, agg, now), c: c}
	}
}

type harness struct {
	db       *sql.DB
	projects *projectService
	tasks    *taskService
	counts   *callCounts
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	h := &harness{
		db:       database,
		projects: NewProjectService(uow, WithClock(fixedClock)).(*projectService),
		tasks:    NewTaskService(uow, WithClock(fixedClock)).(*taskService),
		counts:   &callCounts{},
	}
	h.counts.reset()
	instrument(&h.projects.lifecycle, h.counts)
	instrument(&h.tasks.lifecycle, h.counts)
	return h
}

func (h *harness) project(t *testing.T, code string, parent *int64) int64 {
	t.Helper()
	resp, err := h.projects.Create(context.Background(), contract.ProjectCreateRequest{
		ParentID: parent,
		Code:     code,
		Name:     code + " project",
	})
	require.NoError(t, err)
	return resp.ID
}

func (h *harness) task(t *testing.T, projectID int64, name string, parent *int64) int64 {
	t.Helper()
	resp, err := h.tasks.Create(context.Background(), contract.TaskCreateRequest{
		ParentID:    parent,
		ProjectID:   projectID,
		Name:        name,
		Description: name + " description",
	})
	require.NoError(t, err)
	return resp.ID
}

func (h *harness) setTaskState(t *testing.T, id int64, state string) *contract.TaskResponse {
	t.Helper()
	resp, err := h.tasks.Update(context.Background(), id, contract.TaskUpdateRequest{State: &state})
	require.NoError(t, err)
	return resp
}

func (h *harness) loadProject(t *testing.T, id int64) *domain.Project {
	t.Helper()
	p, err := repository.NewSQLiteProjectRepo(h.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (h *harness) loadTask(t *testing.T, id int64) *domain.Task {
	t.Helper()
	task, err := repository.NewSQLiteTaskRepo(h.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }
