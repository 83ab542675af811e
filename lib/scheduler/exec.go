// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// CommandHandler returns a Handler that executes the job's Command,
// resolving the first element through PATH. The process inherits the
// scheduler's environment, writes to stdout and stderr, and is killed
// when the firing's context is cancelled.
func CommandHandler(stdout, stderr io.Writer) Handler {
	return func(ctx context.Context, job Job) error {
		if len(job.Command) == 0 {
			return fmt.Errorf("job %q has no command", job.Name)
		}
		cmd := exec.CommandContext(ctx, job.Command[0], job.Command[1:]...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("job %q: %s: %w", job.Name, job.Command[0], err)
		}
		return nil
	}
}
