// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// DatabasePath returns the path of a not-yet-created SQLite database
// file in a per-test temporary directory. The directory, and the WAL
// and shared-memory files SQLite creates beside the database, are
// removed when the test completes.
func DatabasePath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name+".db")
}
