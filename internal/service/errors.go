package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/repository"
)

// ErrRecordNotFound is returned, wrapped with the entity and id, when a
// project or task does not exist.
var ErrRecordNotFound = repository.ErrNotFound

// ErrProjectMismatch marks an update that would leave a task and its parent
// or descendants in different projects.
var ErrProjectMismatch = errors.New("task hierarchy would span more than one project")

// ErrHierarchyCycle marks a reparenting that would make a node its own
// ancestor.
var ErrHierarchyCycle = errors.New("node cannot be moved under itself")

// CreationError reports that a new record could not be stored.
type CreationError struct {
	Entity string
	Err    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("creating %s: %v", e.Entity, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// UpdateError reports a rejected or failed update or delete.
type UpdateError struct {
	Entity string
	ID     int64
	Op     string
	Err    error
}

func (e *UpdateError) Error() string {
	op := e.Op
	if op == "" {
		op = "updating"
	}
	return fmt.Sprintf("%s %s %d: %v", op, e.Entity, e.ID, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// ValidationError wraps a request that breaks the data model's field rules.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
