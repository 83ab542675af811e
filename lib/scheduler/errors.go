// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import "errors"

var (
	// ErrJobNotFound is returned when no job has the requested name.
	ErrJobNotFound = errors.New("scheduler: job not found")

	// ErrDuplicateJob is returned when adding a job whose name is
	// already registered.
	ErrDuplicateJob = errors.New("scheduler: duplicate job name")
)
