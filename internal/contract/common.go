// Package contract defines the request and response shapes exchanged with
// the services, and the mapping between them and domain entities.
package contract

import (
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request against its validate tags.
func Validate(req any) error {
	return validate.Struct(req)
}

// parseOptionalState parses an optional state name.
func parseOptionalState(raw *string) (*domain.State, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := domain.ParseState(*raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// reparent applies an optional parent id where 0 detaches the item.
func reparent(current **int64, requested *int64) {
	if requested == nil {
		return
	}
	if *requested == 0 {
		*current = nil
		return
	}
	id := *requested
	*current = &id
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
