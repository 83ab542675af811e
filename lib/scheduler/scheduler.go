// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/bureau-foundation/cronparse/lib/clock"
	"github.com/bureau-foundation/cronparse/lib/cron"
)

// Handler runs one firing of a job. A returned error is logged,
// counted and stored as the job's last error; it does not unschedule
// the job.
type Handler func(ctx context.Context, job Job) error

// Config holds the parameters for creating a Scheduler.
type Config struct {
	// Handler is called for every firing. Required.
	Handler Handler

	// Store persists jobs and run history. Optional; without one the
	// scheduler keeps jobs in memory only.
	Store *Store

	// Location is the time zone schedules are evaluated in.
	// Default: time.Local.
	Location *time.Location

	// Clock stamps job creation and run times and supplies "now" for
	// status queries. Default: clock.Real().
	Clock clock.Clock

	// Logger receives job lifecycle messages. Defaults to discarding.
	Logger *slog.Logger

	// Meter records run counts and durations. Default: no-op.
	Meter metric.Meter

	// Tracer wraps each firing in a span. Default: no-op.
	Tracer trace.Tracer
}

// Scheduler fires registered jobs on their schedules using a robfig
// cron runner whose timing comes from cron.Engine searches. Overlapping
// firings of the same job are skipped, and a panicking handler is
// recovered and logged.
//
// All methods are safe for concurrent use.
type Scheduler struct {
	handler  Handler
	store    *Store
	location *time.Location
	clock    clock.Clock
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *runMetrics
	runner   *robfig.Cron

	// runContext is the parent of every handler context. It is
	// cancelled when Stop gives up waiting for running handlers.
	runContext context.Context
	cancelRuns context.CancelFunc

	mu      sync.Mutex
	entries map[string]*entry
}

// entry is a registered job and its runner slot.
type entry struct {
	job     Job
	engine  *cron.Engine
	entryID robfig.EntryID
}

// Status is a job with its neighbouring fire times, as of the
// scheduler clock's now.
type Status struct {
	Job
	Next     time.Time `json:"next,omitzero"`
	Previous time.Time `json:"previous,omitzero"`
}

// SyncResult lists job names by what Sync did with them.
type SyncResult struct {
	Added     []string `json:"added,omitempty"`
	Updated   []string `json:"updated,omitempty"`
	Removed   []string `json:"removed,omitempty"`
	Unchanged []string `json:"unchanged,omitempty"`
}

// New creates a stopped Scheduler with no jobs. Call Load to restore
// stored jobs and Start to begin firing.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Handler == nil {
		return nil, fmt.Errorf("scheduler: Handler is required")
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	meter := cfg.Meter
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter("cronparse")
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("cronparse")
	}

	metrics, err := newRunMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("scheduler: creating instruments: %w", err)
	}

	runLogger := runnerLogger{logger: logger}
	runner := robfig.New(
		robfig.WithLocation(location),
		robfig.WithLogger(runLogger),
		robfig.WithChain(
			robfig.Recover(runLogger),
			robfig.SkipIfStillRunning(runLogger),
		),
	)

	runContext, cancelRuns := context.WithCancel(context.Background())
	return &Scheduler{
		handler:    cfg.Handler,
		store:      cfg.Store,
		location:   location,
		clock:      clk,
		logger:     logger,
		tracer:     tracer,
		metrics:    metrics,
		runner:     runner,
		runContext: runContext,
		cancelRuns: cancelRuns,
		entries:    make(map[string]*entry),
	}, nil
}

// Load registers every job in the store. Jobs already registered under
// the same name are left alone. Without a store Load does nothing.
func (s *Scheduler) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	jobs, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range jobs {
		if _, exists := s.entries[job.Name]; exists {
			continue
		}
		if err := s.registerLocked(job); err != nil {
			return err
		}
		s.logger.Debug("job restored", "job", job.Name, "id", job.ID, "schedule", job.Schedule)
	}
	return nil
}

// Add creates, persists and registers a job. A name that is already
// registered yields ErrDuplicateJob.
func (s *Scheduler) Add(ctx context.Context, spec JobSpec) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, spec)
}

func (s *Scheduler) addLocked(ctx context.Context, spec JobSpec) (Job, error) {
	if _, exists := s.entries[spec.Name]; exists {
		return Job{}, fmt.Errorf("%w: %q", ErrDuplicateJob, spec.Name)
	}

	job, err := NewJob(spec, s.clock.Now())
	if err != nil {
		return Job{}, err
	}
	if s.store != nil {
		if err := s.store.Put(ctx, job); err != nil {
			return Job{}, err
		}
	}
	if err := s.registerLocked(job); err != nil {
		return Job{}, err
	}

	s.logger.Info("job added", "job", job.Name, "id", job.ID, "schedule", job.Schedule)
	return job, nil
}

// Remove unregisters and deletes the job named name.
func (s *Scheduler) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, name)
}

func (s *Scheduler) removeLocked(ctx context.Context, name string) error {
	registered, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, name); err != nil && !errors.Is(err, ErrJobNotFound) {
			return err
		}
	}
	s.runner.Remove(registered.entryID)
	delete(s.entries, name)

	s.logger.Info("job removed", "job", name, "id", registered.job.ID)
	return nil
}

// Sync makes the registered jobs match specs. A job whose fingerprint
// and command are unchanged keeps its ID and history even if its
// schedule text differs; a changed job is replaced; jobs absent from
// specs are removed. Specs are validated before anything changes.
func (s *Scheduler) Sync(ctx context.Context, specs []JobSpec) (SyncResult, error) {
	wanted := make(map[string]JobSpec, len(specs))
	for _, spec := range specs {
		if _, duplicate := wanted[spec.Name]; duplicate {
			return SyncResult{}, fmt.Errorf("%w: %q", ErrDuplicateJob, spec.Name)
		}
		if _, err := NewJob(spec, time.Time{}); err != nil {
			return SyncResult{}, err
		}
		wanted[spec.Name] = spec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result SyncResult
	for _, name := range slices.Sorted(maps.Keys(s.entries)) {
		if _, keep := wanted[name]; keep {
			continue
		}
		if err := s.removeLocked(ctx, name); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, name)
	}

	for _, spec := range specs {
		registered, exists := s.entries[spec.Name]
		switch {
		case !exists:
			if _, err := s.addLocked(ctx, spec); err != nil {
				return result, err
			}
			result.Added = append(result.Added, spec.Name)
		case registered.job.matches(spec):
			result.Unchanged = append(result.Unchanged, spec.Name)
		default:
			if err := s.removeLocked(ctx, spec.Name); err != nil {
				return result, err
			}
			if _, err := s.addLocked(ctx, spec); err != nil {
				return result, err
			}
			result.Updated = append(result.Updated, spec.Name)
		}
	}
	return result, nil
}

// Jobs returns every registered job with its next and previous fire
// times, ordered by name. A schedule that can never fire has zero
// Next and Previous.
func (s *Scheduler) Jobs() []Status {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]Status, 0, len(s.entries))
	for _, registered := range s.entries {
		status := Status{Job: registered.job}
		if next, err := registered.engine.Next(now); err == nil {
			status.Next = next
		}
		if previous, err := registered.engine.Previous(now); err == nil {
			status.Previous = previous
		}
		statuses = append(statuses, status)
	}
	slices.SortFunc(statuses, func(a, b Status) int {
		return strings.Compare(a.Name, b.Name)
	})
	return statuses
}

// Trigger runs the named job once, synchronously, outside its
// schedule. The run is recorded like a scheduled firing and the
// handler's error is returned.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	_, exists := s.entries[name]
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return s.fire(ctx, name)
}

// Start begins firing jobs in a background goroutine. It is a no-op
// if the scheduler is already running.
func (s *Scheduler) Start() {
	s.runner.Start()
	s.logger.Info("scheduler started", "jobs", s.jobCount(), "location", s.location.String())
}

// Stop halts scheduling and waits for running handlers to return. If
// ctx ends first, the handlers' contexts are cancelled and ctx.Err()
// is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	drained := s.runner.Stop()
	defer s.cancelRuns()

	select {
	case <-drained.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out; cancelling running jobs")
		return ctx.Err()
	}
}

func (s *Scheduler) jobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// registerLocked builds the job's Engine and hands it to the runner.
func (s *Scheduler) registerLocked(job Job) error {
	engine, err := job.Engine(cron.WithClock(s.clock), cron.WithLocation(s.location))
	if err != nil {
		return err
	}

	name := job.Name
	entryID := s.runner.Schedule(engineSchedule{engine: engine}, robfig.FuncJob(func() {
		// The error is already logged, counted and stored by fire.
		_ = s.fire(s.runContext, name)
	}))
	s.entries[name] = &entry{job: job, engine: engine, entryID: entryID}
	return nil
}

// fire runs one firing of the named job and records its outcome.
func (s *Scheduler) fire(ctx context.Context, name string) error {
	s.mu.Lock()
	registered, exists := s.entries[name]
	var job Job
	if exists {
		job = registered.job
	}
	s.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}

	ctx, span := s.tracer.Start(ctx, "cronparse.job.run",
		trace.WithAttributes(
			attribute.String("cronparse.job.name", job.Name),
			attribute.String("cronparse.job.id", job.ID),
			attribute.String("cronparse.job.schedule", job.Schedule),
		),
	)
	defer span.End()

	started := s.clock.Now()
	runErr := s.handler(ctx, job)
	elapsed := s.clock.Now().Sub(started)

	s.metrics.record(ctx, job.Name, elapsed, runErr)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		s.logger.Error("job failed", "job", job.Name, "id", job.ID, "duration", elapsed, "error", runErr)
	} else {
		s.logger.Info("job finished", "job", job.Name, "id", job.ID, "duration", elapsed)
	}

	s.mu.Lock()
	if current, ok := s.entries[name]; ok && current.job.ID == job.ID {
		current.job.LastRun = started
		current.job.RunCount++
		current.job.LastError = ""
		if runErr != nil {
			current.job.LastError = runErr.Error()
		}
	}
	s.mu.Unlock()

	if s.store != nil {
		// The run context may already be cancelled by Stop; the
		// bookkeeping write still goes through.
		if err := s.store.RecordRun(context.WithoutCancel(ctx), job.Name, started, runErr); err != nil {
			s.logger.Warn("recording job run failed", "job", job.Name, "error", err)
		}
	}
	return runErr
}

// engineSchedule adapts a cron.Engine to the runner's Schedule
// interface. The runner asks for the activation after t, while
// Engine.Next returns t itself when t matches, so the search starts at
// the following second. A schedule with no match returns the zero
// time, which the runner never fires.
type engineSchedule struct {
	engine *cron.Engine
}

func (s engineSchedule) Next(t time.Time) time.Time {
	next, err := s.engine.Next(t.Truncate(time.Second).Add(time.Second))
	if err != nil {
		return time.Time{}
	}
	return next
}
