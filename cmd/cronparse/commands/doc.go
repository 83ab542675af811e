// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the cronparse CLI command tree.
//
// The schedule commands (validate, next, prev, fields, wait) work on a
// crontab string given as positional arguments and need no
// configuration. The job commands (jobs, trigger, run) read a YAML
// config file (see lib/config) and keep its jobs in a SQLite store
// through lib/scheduler.
package commands
