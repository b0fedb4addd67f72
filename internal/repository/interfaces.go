package repository

import (
	"context"

	"github.com/alexanderramin/arbor/internal/domain"
)

// ProjectRepo persists projects. ListChildren is the predicate lookup the
// subtree walker runs on.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) error
}

// TaskRepo persists tasks.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByProjectIDs(ctx context.Context, projectIDs []int64) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
}
