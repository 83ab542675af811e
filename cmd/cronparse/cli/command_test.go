// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "cronparse",
		Subcommands: []*Command{
			{
				Name: "next",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "next"
					return nil
				},
			},
			{
				Name: "prev",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "prev"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"prev"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "prev" {
		t.Errorf("dispatched to %q, want %q", called, "prev")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "cronparse",
		Subcommands: []*Command{
			{
				Name: "jobs",
				Subcommands: []*Command{
					{
						Name: "trigger",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "jobs trigger"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"jobs", "trigger", "backup"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "jobs trigger" {
		t.Errorf("dispatched to %q, want %q", called, "jobs trigger")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "backup" {
		t.Errorf("args = %v, want [backup]", receivedArgs)
	}
}

func TestCommand_Execute_ParamsPopulated(t *testing.T) {
	type params struct {
		JSONOutput
		At       string `flag:"at" desc:"reference time"`
		Location string `flag:"location" desc:"time zone" default:"UTC"`
	}
	var p params
	var positional []string

	command := &Command{
		Name:   "next",
		Params: func() any { return &p },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			positional = args
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--at", "2026-02-17T10:07:12Z", "--json", "*/15 * * * *"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if p.At != "2026-02-17T10:07:12Z" {
		t.Errorf("At = %q", p.At)
	}
	if p.Location != "UTC" {
		t.Errorf("Location = %q, want default UTC", p.Location)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false after --json")
	}
	if len(positional) != 1 || positional[0] != "*/15 * * * *" {
		t.Errorf("args = %q, want the crontab as one argument", positional)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	type params struct {
		Location string `flag:"location" desc:"time zone"`
	}
	var p params
	command := &Command{
		Name:   "next",
		Params: func() any { return &p },
		Run:    func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--locaton", "UTC"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --location?") {
		t.Errorf("error should suggest --location, got: %v", err)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "cronparse",
		Subcommands: []*Command{
			{Name: "validate", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "version", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"valdiate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "validate"?`) {
		t.Errorf("error should suggest validate, got: %v", err)
	}

	err = root.Execute(context.Background(), []string{"completely-different"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("distant name should get no suggestion, got: %v", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "cronparse",
		Subcommands: []*Command{{Name: "version"}},
	}
	if err := root.Execute(context.Background(), nil); err == nil {
		t.Error("expected error when no subcommand is given")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	type params struct {
		Location string `flag:"location" desc:"time zone for calendar fields"`
	}
	var p params
	child := &Command{
		Name:    "next",
		Summary: "Print the next fire time",
		Params:  func() any { return &p },
		Examples: []Example{
			{Description: "Next quarter hour", Command: "cronparse next '*/15 * * * *'"},
		},
	}
	root := &Command{Name: "cronparse", Subcommands: []*Command{child}}
	child.parent = root

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	if help := buffer.String(); !strings.Contains(help, "next") || !strings.Contains(help, "Print the next fire time") {
		t.Errorf("root help missing subcommand listing:\n%s", help)
	}

	buffer.Reset()
	child.PrintHelp(&buffer)
	help := buffer.String()
	for _, want := range []string{"cronparse next [flags]", "--location", "time zone for calendar fields", "# Next quarter hour"} {
		if !strings.Contains(help, want) {
			t.Errorf("child help missing %q:\n%s", want, help)
		}
	}
}
