// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint error handling for the
// cronparse binary: the one place where an error becomes a status code
// and, before or without a structured logger, a line on stderr.
package process
