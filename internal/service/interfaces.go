package service

import (
	"context"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, req contract.ProjectCreateRequest) (*contract.ProjectResponse, error)
	GetByID(ctx context.Context, id int64) (*contract.ProjectResponse, error)
	List(ctx context.Context) ([]contract.ProjectResponse, error)
	Update(ctx context.Context, id int64, req contract.ProjectUpdateRequest) (*contract.ProjectResponse, error)
	Delete(ctx context.Context, id int64) error
	// Recompute re-derives the project's state and propagates any change to
	// its ancestors.
	Recompute(ctx context.Context, id int64) (*contract.ProjectResponse, error)
}

type TaskService interface {
	Create(ctx context.Context, req contract.TaskCreateRequest) (*contract.TaskResponse, error)
	GetByID(ctx context.Context, id int64) (*contract.TaskResponse, error)
	List(ctx context.Context) ([]contract.TaskResponse, error)
	Update(ctx context.Context, id int64, req contract.TaskUpdateRequest) (*contract.TaskResponse, error)
	Delete(ctx context.Context, id int64) error
}

// ImportService stores a project outline, all or nothing.
type ImportService interface {
	Import(ctx context.Context, outline *importer.Outline) (*contract.ImportResult, error)
}

type ReportService interface {
	ActiveOn(ctx context.Context, date time.Time) (*contract.ActiveReport, error)
}

// StateAggregator derives a project's state from every task in its subtree.
type StateAggregator interface {
	ComputeProjectState(ctx context.Context, projectID int64) (domain.State, error)
}

// StatePropagator recomputes a project's state and walks up its ancestors
// until a state is unchanged or the root is passed. A nil id is a no-op.
type StatePropagator interface {
	PropagateFrom(ctx context.Context, projectID *int64) error
}
