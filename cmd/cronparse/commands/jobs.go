// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/bureau-foundation/cronparse/cmd/cronparse/cli"
	"github.com/bureau-foundation/cronparse/lib/config"
	"github.com/bureau-foundation/cronparse/lib/scheduler"
)

// instrumentationName scopes the meter and tracer taken from the
// global OpenTelemetry providers.
const instrumentationName = "github.com/bureau-foundation/cronparse"

// configParams is embedded by every command that reads a config file.
type configParams struct {
	ConfigPath string `json:"config" flag:"config,c" desc:"path to cronparse.yaml (default $CRONPARSE_CONFIG)"`
}

// load reads and validates the config file named by --config, falling
// back to the CRONPARSE_CONFIG environment variable.
func (p *configParams) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if p.ConfigPath != "" {
		cfg, err = config.LoadFile(p.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// jobRuntime is an opened store and a scheduler over it, with the
// stored jobs loaded.
type jobRuntime struct {
	config    *config.Config
	store     *scheduler.Store
	scheduler *scheduler.Scheduler
}

func openJobRuntime(ctx context.Context, env commandEnv, cfg *config.Config, logger *slog.Logger) (*jobRuntime, error) {
	location, err := cfg.LoadLocation()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}

	store, err := scheduler.OpenStore(scheduler.StoreConfig{
		Path:   cfg.Store.Path,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	jobScheduler, err := scheduler.New(scheduler.Config{
		Handler:  scheduler.CommandHandler(env.stdout, env.stderr),
		Store:    store,
		Location: location,
		Clock:    env.clock,
		Logger:   logger,
		Meter:    otel.Meter(instrumentationName),
		Tracer:   otel.Tracer(instrumentationName),
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := jobScheduler.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &jobRuntime{config: cfg, store: store, scheduler: jobScheduler}, nil
}

// sync reconciles the stored jobs with the config file's jobs.
func (r *jobRuntime) sync(ctx context.Context, logger *slog.Logger) error {
	specs := make([]scheduler.JobSpec, 0, len(r.config.Jobs))
	for _, job := range r.config.Jobs {
		specs = append(specs, scheduler.JobSpec{Name: job.Name, Schedule: job.Schedule, Command: job.Command})
	}
	result, err := r.scheduler.Sync(ctx, specs)
	if err != nil {
		return err
	}
	logger.Info("jobs synced",
		"added", len(result.Added),
		"updated", len(result.Updated),
		"removed", len(result.Removed),
		"unchanged", len(result.Unchanged),
	)
	return nil
}

func (r *jobRuntime) close(logger *slog.Logger) {
	if err := r.store.Close(); err != nil {
		logger.Warn("closing job store", "error", err)
	}
}

type jobsParams struct {
	cli.JSONOutput
	configParams
}

func jobsCommand(env commandEnv) *cli.Command {
	var params jobsParams

	return &cli.Command{
		Name:    "jobs",
		Summary: "List stored jobs with their next and previous fire times",
		Description: `List the jobs in the store named by the config file, with their
next and previous fire times as of now and their run history.

The store reflects the config as of the last "cronparse run" or
"cronparse trigger".`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			runtime, err := openJobRuntime(ctx, env, cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.close(logger)

			statuses := runtime.scheduler.Jobs()
			if done, err := params.EmitJSON(env.stdout, statuses); done {
				return err
			}
			if len(statuses) == 0 {
				_, err := fmt.Fprintln(env.stdout, "no jobs stored")
				return err
			}

			writer := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "NAME\tSCHEDULE\tNEXT\tPREVIOUS\tRUNS\tLAST ERROR")
			for _, status := range statuses {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
					status.Name,
					status.Schedule,
					formatInstant(status.Next),
					formatInstant(status.Previous),
					strconv.FormatInt(status.RunCount, 10),
					status.LastError,
				)
			}
			return writer.Flush()
		},
	}
}

// formatInstant renders a fire time, or "never" for the zero time.
func formatInstant(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(time.RFC3339)
}

type triggerParams struct {
	configParams
}

func triggerCommand(env commandEnv) *cli.Command {
	var params triggerParams

	return &cli.Command{
		Name:    "trigger",
		Summary: "Run a configured job once, now",
		Description: `Sync the config file's jobs into the store, then run the named job
once outside its schedule. The run is recorded in the job's history.
Exits non-zero if the job's command fails.`,
		Usage:  "cronparse trigger <job> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one job name required")
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			runtime, err := openJobRuntime(ctx, env, cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.close(logger)

			if err := runtime.sync(ctx, logger); err != nil {
				return err
			}
			return runtime.scheduler.Trigger(ctx, args[0])
		},
	}
}

type runParams struct {
	configParams
}

func runCommand(env commandEnv) *cli.Command {
	var params runParams

	return &cli.Command{
		Name:    "run",
		Summary: "Run configured jobs on their schedules until interrupted",
		Description: `Sync the config file's jobs into the store, then execute each job's
command whenever its schedule fires, until SIGINT or SIGTERM.

A firing is skipped while the previous run of the same job is still
going. On shutdown, running commands get scheduler.drain_timeout to
finish before they are killed.`,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			level, err := cfg.LogLevel()
			if err != nil {
				return err
			}
			drainTimeout, err := cfg.DrainTimeout()
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger(level).With(
				"command", "run",
				"environment", string(cfg.Environment),
			)

			runtime, err := openJobRuntime(ctx, env, cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.close(logger)

			if err := runtime.sync(ctx, logger); err != nil {
				return err
			}
			return serve(ctx, runtime.scheduler, drainTimeout)
		},
	}
}

// serve runs jobScheduler until ctx ends, then stops it, allowing
// running jobs drainTimeout to finish.
func serve(ctx context.Context, jobScheduler *scheduler.Scheduler, drainTimeout time.Duration) error {
	jobScheduler.Start()
	<-ctx.Done()

	drainContext, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	if err := jobScheduler.Stop(drainContext); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
