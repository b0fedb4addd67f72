package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo on any DBTX.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, parent_id, project_id, name, description, start_at, finish_at, state`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (parent_id, project_id, name, description, start_at, finish_at, state)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		nullableID(t.ParentID),
		t.ProjectID,
		t.Name,
		t.Description,
		nullableTimeToString(t.Start),
		nullableTimeToString(t.Finish),
		int(t.State),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, "listing tasks", `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

// ListByProjectIDs returns every task owned by one of the given projects,
// regardless of task parentage.
func (r *SQLiteTaskRepo) ListByProjectIDs(ctx context.Context, projectIDs []int64) ([]*domain.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(projectIDs)
	return r.query(ctx, "listing tasks by project",
		`SELECT `+taskColumns+` FROM tasks WHERE project_id IN `+in+` ORDER BY id`, args...)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID int64) ([]*domain.Task, error) {
	return r.query(ctx, "listing child tasks",
		`SELECT `+taskColumns+` FROM tasks WHERE parent_id = ? ORDER BY id`, parentID)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, project_id = ?, name = ?, description = ?,
		start_at = ?, finish_at = ?, state = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableID(t.ParentID),
		t.ProjectID,
		t.Name,
		t.Description,
		nullableTimeToString(t.Start),
		nullableTimeToString(t.Finish),
		int(t.State),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) query(ctx context.Context, what, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var parentID sql.NullInt64
	var startAt, finishAt sql.NullString
	var state int

	if err := row.Scan(&t.ID, &parentID, &t.ProjectID, &t.Name, &t.Description, &startAt, &finishAt, &state); err != nil {
		return nil, err
	}
	t.ParentID = idFromNull(parentID)
	t.Start = parseNullableTime(startAt)
	t.Finish = parseNullableTime(finishAt)
	t.State = domain.State(state)
	return &t, nil
}
