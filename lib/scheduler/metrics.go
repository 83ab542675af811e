// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument names recorded for every job firing.
const (
	MetricRuns     = "cronparse.job.runs"
	MetricFailures = "cronparse.job.failures"
	MetricDuration = "cronparse.job.duration"
)

// runMetrics holds the instruments the scheduler records into.
type runMetrics struct {
	runs     metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

func newRunMetrics(meter metric.Meter) (*runMetrics, error) {
	runs, err := meter.Int64Counter(MetricRuns,
		metric.WithDescription("Number of job firings"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(MetricFailures,
		metric.WithDescription("Number of job firings whose handler returned an error"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Duration of job handler execution in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &runMetrics{
		runs:     runs,
		failures: failures,
		duration: duration,
	}, nil
}

// record counts one firing of job and its duration, and a failure when
// runErr is non-nil.
func (m *runMetrics) record(ctx context.Context, job string, elapsed time.Duration, runErr error) {
	attrs := metric.WithAttributes(attribute.String("job", job))
	m.runs.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if runErr != nil {
		m.failures.Add(ctx, 1, attrs)
	}
}
