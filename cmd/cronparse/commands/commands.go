// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/cronparse/cmd/cronparse/cli"
	"github.com/bureau-foundation/cronparse/lib/clock"
	"github.com/bureau-foundation/cronparse/lib/version"
)

// commandEnv carries what commands read from and write to outside
// their arguments. Tests substitute a buffer and a fake clock.
type commandEnv struct {
	stdout io.Writer
	stderr io.Writer
	clock  clock.Clock
}

// Root builds the complete cronparse command tree writing to stdout
// and stderr.
func Root(stdout, stderr io.Writer) *cli.Command {
	return newRoot(commandEnv{stdout: stdout, stderr: stderr, clock: clock.Real()})
}

func newRoot(env commandEnv) *cli.Command {
	return &cli.Command{
		Name: "cronparse",
		Description: `cronparse: cron expression engine and job runner.

Parses 5- and 6-field crontab strings, finds the fire times nearest to
any instant in either direction, and runs configured commands on their
schedules with persistent run history.`,
		Subcommands: []*cli.Command{
			validateCommand(env),
			searchCommand(env, "next"),
			searchCommand(env, "prev"),
			fieldsCommand(env),
			waitCommand(env),
			jobsCommand(env),
			triggerCommand(env),
			runCommand(env),
			versionCommand(env),
		},
		Examples: []cli.Example{
			{
				Description: "Check a crontab string",
				Command:     "cronparse validate '*/15 9-17 * * 1-5'",
			},
			{
				Description: "Next three fire times in Tokyo",
				Command:     "cronparse next --location Asia/Tokyo --count 3 '0 30 9 * * *'",
			},
			{
				Description: "Run the jobs declared in a config file",
				Command:     "cronparse run --config /etc/cronparse.yaml",
			},
		},
	}
}

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(env commandEnv) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			build := version.Current()
			if done, err := params.EmitJSON(env.stdout, build); done {
				return err
			}
			_, err := fmt.Fprintf(env.stdout, "cronparse %s\n", build.Full())
			return err
		},
	}
}
