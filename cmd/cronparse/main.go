// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command cronparse parses crontab strings, finds their fire times, and
// runs configured jobs on their schedules.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/cronparse/cmd/cronparse/commands"
	"github.com/bureau-foundation/cronparse/lib/process"
)

func main() {
	process.Exit(run())
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
}
