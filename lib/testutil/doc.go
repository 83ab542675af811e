// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. Schedule logic itself is
// tested against clock.Fake; these helpers are the only place where a
// real wall-clock timeout bounds a test.
//
// [DatabasePath] returns a fresh SQLite file path under t.TempDir.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
