// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind the
// persistent job store.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool with fixed pragmas:
// WAL journal mode so CLI reads never block the scheduler's run
// bookkeeping, NORMAL synchronous, a 5 second busy timeout and
// in-memory temp storage.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   "/var/lib/cronparse/jobs.db",
//	    Schema: schema,
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.Write(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, "DELETE FROM jobs WHERE name = ?",
//	        &sqlitex.ExecOptions{Args: []any{name}})
//	})
//
// The package applies pragmas and runs the schema script and nothing
// more. Callers write SQL and use sqlitex.Execute for cached statements.
package sqlitepool
