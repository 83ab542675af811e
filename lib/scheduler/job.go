// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/cronparse/lib/cron"
)

// JobSpec declares a job: a name, a crontab string and the command a
// Handler runs when the schedule fires.
type JobSpec struct {
	Name     string   `json:"name"`
	Schedule string   `json:"schedule"`
	Command  []string `json:"command,omitempty"`
}

// Job is a registered JobSpec with its resolved schedule and run
// bookkeeping.
type Job struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Schedule string   `json:"schedule"`
	Command  []string `json:"command,omitempty"`

	// Fields are the resolved value sets. Restored jobs use these
	// rather than re-parsing Schedule.
	Fields cron.Fields `json:"fields"`

	// Fingerprint identifies the set of instants the schedule allows.
	// Sync compares fingerprints, not Schedule text.
	Fingerprint string `json:"fingerprint"`

	CreatedAt time.Time `json:"created_at"`
	LastRun   time.Time `json:"last_run,omitzero"`
	LastError string    `json:"last_error,omitempty"`
	RunCount  int64     `json:"run_count"`
}

// NewJob parses spec.Schedule and assigns a fresh ID.
func NewJob(spec JobSpec, now time.Time) (Job, error) {
	if spec.Name == "" {
		return Job{}, fmt.Errorf("scheduler: job name is required")
	}

	fields, err := cron.ParseFields(spec.Schedule)
	if err != nil {
		return Job{}, fmt.Errorf("scheduler: job %q: %w", spec.Name, err)
	}
	fingerprint, err := fields.Fingerprint()
	if err != nil {
		return Job{}, fmt.Errorf("scheduler: job %q: %w", spec.Name, err)
	}

	return Job{
		ID:          uuid.NewString(),
		Name:        spec.Name,
		Schedule:    spec.Schedule,
		Command:     slices.Clone(spec.Command),
		Fields:      fields,
		Fingerprint: fingerprint,
		CreatedAt:   now,
	}, nil
}

// Spec returns the JobSpec the job was created from.
func (j Job) Spec() JobSpec {
	return JobSpec{Name: j.Name, Schedule: j.Schedule, Command: slices.Clone(j.Command)}
}

// Engine builds a cron.Engine for the job. The stored Fields replace
// whatever parsing Schedule produces, so a job keeps its resolved sets
// even if the parser's interpretation of the text changes.
func (j Job) Engine(options ...cron.Option) (*cron.Engine, error) {
	engine, err := cron.New(j.Schedule, options...)
	if err != nil {
		return nil, fmt.Errorf("scheduler: job %q: %w", j.Name, err)
	}
	engine.SetFields(j.Fields)
	return engine, nil
}

// matches reports whether spec would produce the same firings and the
// same command as j.
func (j Job) matches(spec JobSpec) bool {
	if !slices.Equal(j.Command, spec.Command) {
		return false
	}
	fields, err := cron.ParseFields(spec.Schedule)
	if err != nil {
		return false
	}
	fingerprint, err := fields.Fingerprint()
	return err == nil && fingerprint == j.Fingerprint
}
