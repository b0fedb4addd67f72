package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("arbor.service")
	meter  = otel.Meter("arbor.service")
)

var (
	stateTransitions metric.Int64Counter
	propagationDepth metric.Int64Histogram
	useCaseLatency   metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once. Safe to call repeatedly.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		stateTransitions, err = meter.Int64Counter(
			"arbor_state_transitions_total",
			metric.WithDescription("Project state changes written by propagation"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		propagationDepth, err = meter.Int64Histogram(
			"arbor_propagation_depth",
			metric.WithDescription("Projects visited by one propagation walk"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		useCaseLatency, err = meter.Float64Histogram(
			"arbor_use_case_duration_seconds",
			metric.WithDescription("Duration of service use cases"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordTransition(ctx context.Context, to domain.State) {
	if err := initMetrics(); err != nil {
		return
	}
	stateTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", "project"),
		attribute.String("to", to.String()),
	))
}

func recordPropagation(ctx context.Context, visited int) {
	if err := initMetrics(); err != nil {
		return
	}
	propagationDepth.Record(ctx, int64(visited))
}

func recordUseCase(ctx context.Context, name string, d time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	useCaseLatency.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("use_case", name),
		attribute.Bool("success", success),
	))
}
