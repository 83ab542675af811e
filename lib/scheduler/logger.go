// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"log/slog"

	robfig "github.com/robfig/cron/v3"
)

// runnerLogger adapts slog to the logger interface the robfig runner
// reports through. The runner's informational chatter (wake, schedule,
// run) is demoted to debug.
type runnerLogger struct {
	logger *slog.Logger
}

var _ robfig.Logger = runnerLogger{}

func (l runnerLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("runner: "+msg, keysAndValues...)
}

func (l runnerLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("runner: "+msg, append(keysAndValues, "error", err)...)
}
