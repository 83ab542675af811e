// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the cronparse
// binary.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a params struct whose tagged fields are
// bound to pflag flags by [BindFlags], and a Run function. Commands
// are assembled into a tree in cmd/cronparse/commands and dispatched
// via [Command.Execute], which handles flag parsing, subcommand
// routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// [JSONOutput] gives a command a --json flag, [ExitError] carries a
// handled non-zero exit code, and [NewCommandLogger] picks a text or
// JSON slog handler depending on whether stderr is a terminal.
package cli
