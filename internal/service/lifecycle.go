package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// txRepos are the repositories bound to one unit of work.
type txRepos struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

func sqliteRepos(tx db.DBTX) txRepos {
	return txRepos{
		projects: repository.NewSQLiteProjectRepo(tx),
		tasks:    repository.NewSQLiteTaskRepo(tx),
	}
}

// Option configures a service.
type Option func(*lifecycle)

// WithClock replaces time.Now as the source of transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *lifecycle) {
		if now != nil {
			l.now = now
		}
	}
}

// WithObserver reports every use case to obs.
func WithObserver(obs UseCaseObserver) Option {
	return func(l *lifecycle) {
		if obs != nil {
			l.observer = obs
		}
	}
}

// lifecycle is the plumbing shared by the project, task and report services.
type lifecycle struct {
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver

	repos      func(tx db.DBTX) txRepos
	propagator func(r txRepos, now func() time.Time) StatePropagator
}

func newLifecycle(uow db.UnitOfWork, opts []Option) lifecycle {
	l := lifecycle{
		uow:        uow,
		now:        func() time.Time { return time.Now().UTC() },
		observer:   NoopUseCaseObserver{},
		repos:      sqliteRepos,
		propagator: newPropagatorFor,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// within runs fn in a fresh unit of work with tx-scoped repositories.
func (l *lifecycle) within(ctx context.Context, fn func(ctx context.Context, r txRepos) error) error {
	return l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, l.repos(tx))
	})
}

// begin opens a span for a use case and returns the func that closes it,
// records metrics and notifies the observer.
func (l *lifecycle) begin(ctx context.Context, name string, fields map[string]any) (context.Context, func(err error)) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(spanAttrs(fields)...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		d := time.Since(started)
		recordUseCase(ctx, name, d, err == nil)
		l.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			Duration:  d,
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
			StartedAt: started,
		})
	}
}

func spanAttrs(fields map[string]any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case string:
			attrs = append(attrs, attribute.String(k, val))
		}
	}
	return attrs
}

func isCommitError(err error) bool {
	var ce *db.CommitError
	return errors.As(err, &ce)
}
