package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Deleting a project removes its tasks at the store level and detaches its
// sub-projects, which become roots. The services never touch dependent rows.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id INTEGER REFERENCES projects(id) ON DELETE SET NULL,
		code      TEXT NOT NULL CHECK(length(code) BETWEEN 1 AND 255),
		name      TEXT NOT NULL CHECK(length(name) BETWEEN 1 AND 255),
		start_at  TEXT,
		finish_at TEXT,
		state     INTEGER NOT NULL DEFAULT 0 CHECK(state IN (0, 1, 2))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_parent ON projects(parent_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		parent_id   INTEGER REFERENCES tasks(id) ON DELETE CASCADE,
		project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL CHECK(length(name) BETWEEN 1 AND 255),
		description TEXT NOT NULL CHECK(length(description) BETWEEN 1 AND 255),
		start_at    TEXT,
		finish_at   TEXT,
		state       INTEGER NOT NULL DEFAULT 0 CHECK(state IN (0, 1, 2))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
}
