package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo on any DBTX.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, parent_id, code, name, start_at, finish_at, state`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (parent_id, code, name, start_at, finish_at, state)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		nullableID(p.ParentID),
		p.Code,
		p.Name,
		nullableTimeToString(p.Start),
		nullableTimeToString(p.Finish),
		int(p.State),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	return r.query(ctx, "listing projects", `SELECT `+projectColumns+` FROM projects ORDER BY id`)
}

func (r *SQLiteProjectRepo) ListChildren(ctx context.Context, parentID int64) ([]*domain.Project, error) {
	return r.query(ctx, "listing child projects",
		`SELECT `+projectColumns+` FROM projects WHERE parent_id = ? ORDER BY id`, parentID)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET parent_id = ?, code = ?, name = ?, start_at = ?, finish_at = ?, state = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableID(p.ParentID),
		p.Code,
		p.Name,
		nullableTimeToString(p.Start),
		nullableTimeToString(p.Finish),
		int(p.State),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) query(ctx context.Context, what, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var parentID sql.NullInt64
	var startAt, finishAt sql.NullString
	var state int

	if err := row.Scan(&p.ID, &parentID, &p.Code, &p.Name, &startAt, &finishAt, &state); err != nil {
		return nil, err
	}
	p.ParentID = idFromNull(parentID)
	p.Start = parseNullableTime(startAt)
	p.Finish = parseNullableTime(finishAt)
	p.State = domain.State(state)
	return &p, nil
}
