// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/cronparse/lib/codec"
	"github.com/bureau-foundation/cronparse/lib/cron"
	"github.com/bureau-foundation/cronparse/lib/sqlitepool"
)

// storeSchema is applied to every connection. Times are Unix
// nanoseconds; zero last_run means the job has never fired. fields and
// command hold deterministic CBOR.
const storeSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	schedule    TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	fields      BLOB NOT NULL,
	command     BLOB NOT NULL,
	created_at  INTEGER NOT NULL,
	last_run    INTEGER NOT NULL DEFAULT 0,
	last_error  TEXT NOT NULL DEFAULT '',
	run_count   INTEGER NOT NULL DEFAULT 0
);
`

const jobColumns = `id, name, schedule, fingerprint, fields, command, created_at, last_run, last_error, run_count`

// Store persists jobs in SQLite so a restarted scheduler resumes with
// the same IDs, resolved schedules and run history.
type Store struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger
}

// StoreConfig holds the parameters for opening a job store.
type StoreConfig struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist.
	Path string

	// Logger receives operational messages. Defaults to discarding.
	Logger *slog.Logger
}

// OpenStore opens (creating if needed) the job database at cfg.Path.
func OpenStore(cfg StoreConfig) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Schema: storeSchema,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler store: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Put inserts job, or replaces the row with the same ID. A different
// job already holding job.Name yields ErrDuplicateJob.
func (s *Store) Put(ctx context.Context, job Job) error {
	fields, err := codec.Marshal(job.Fields)
	if err != nil {
		return fmt.Errorf("scheduler store: encoding fields of %q: %w", job.Name, err)
	}
	command, err := codec.Marshal(job.Command)
	if err != nil {
		return fmt.Errorf("scheduler store: encoding command of %q: %w", job.Name, err)
	}

	err = s.pool.Write(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			INSERT INTO jobs (`+jobColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				schedule = excluded.schedule,
				fingerprint = excluded.fingerprint,
				fields = excluded.fields,
				command = excluded.command,
				last_run = excluded.last_run,
				last_error = excluded.last_error,
				run_count = excluded.run_count`,
			&sqlitex.ExecOptions{
				Args: []any{
					job.ID, job.Name, job.Schedule, job.Fingerprint, fields, command,
					job.CreatedAt.UnixNano(), unixNanoOrZero(job.LastRun), job.LastError, job.RunCount,
				},
			})
	})
	if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
		return fmt.Errorf("%w: %q", ErrDuplicateJob, job.Name)
	}
	if err != nil {
		return fmt.Errorf("scheduler store: put %q: %w", job.Name, err)
	}
	return nil
}

// Get returns the job named name, or ErrJobNotFound.
func (s *Store) Get(ctx context.Context, name string) (Job, error) {
	var (
		job   Job
		found bool
	)
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT `+jobColumns+` FROM jobs WHERE name = ?`,
			&sqlitex.ExecOptions{
				Args: []any{name},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					var err error
					job, err = scanJob(stmt)
					found = true
					return err
				},
			})
	})
	if err != nil {
		return Job{}, fmt.Errorf("scheduler store: get %q: %w", name, err)
	}
	if !found {
		return Job{}, fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return job, nil
}

// List returns every stored job ordered by name.
func (s *Store) List(ctx context.Context) ([]Job, error) {
	var jobs []Job
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT `+jobColumns+` FROM jobs ORDER BY name`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					job, err := scanJob(stmt)
					if err != nil {
						return err
					}
					jobs = append(jobs, job)
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler store: list: %w", err)
	}
	return jobs, nil
}

// Delete removes the job named name, or returns ErrJobNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	var deleted int
	err := s.pool.Write(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, `DELETE FROM jobs WHERE name = ?`,
			&sqlitex.ExecOptions{Args: []any{name}}); err != nil {
			return err
		}
		deleted = conn.Changes()
		return nil
	})
	if err != nil {
		return fmt.Errorf("scheduler store: delete %q: %w", name, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return nil
}

// RecordRun stores the outcome of one firing: the start time, the
// handler's error (nil clears the previous one) and an incremented run
// count.
func (s *Store) RecordRun(ctx context.Context, name string, at time.Time, runErr error) error {
	lastError := ""
	if runErr != nil {
		lastError = runErr.Error()
	}

	var updated int
	err := s.pool.Write(ctx, func(conn *sqlite.Conn) error {
		if err := sqlitex.Execute(conn, `
			UPDATE jobs
			SET last_run = ?, last_error = ?, run_count = run_count + 1
			WHERE name = ?`,
			&sqlitex.ExecOptions{Args: []any{at.UnixNano(), lastError, name}}); err != nil {
			return err
		}
		updated = conn.Changes()
		return nil
	})
	if err != nil {
		return fmt.Errorf("scheduler store: record run of %q: %w", name, err)
	}
	if updated == 0 {
		return fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return nil
}

// scanJob decodes one row selected with jobColumns.
func scanJob(stmt *sqlite.Stmt) (Job, error) {
	job := Job{
		ID:          stmt.ColumnText(0),
		Name:        stmt.ColumnText(1),
		Schedule:    stmt.ColumnText(2),
		Fingerprint: stmt.ColumnText(3),
		CreatedAt:   time.Unix(0, stmt.ColumnInt64(6)),
		LastError:   stmt.ColumnText(8),
		RunCount:    stmt.ColumnInt64(9),
	}
	if lastRun := stmt.ColumnInt64(7); lastRun != 0 {
		job.LastRun = time.Unix(0, lastRun)
	}

	var fields cron.Fields
	if err := codec.Unmarshal(columnBlob(stmt, 4), &fields); err != nil {
		return Job{}, fmt.Errorf("decoding fields of %q: %w", job.Name, err)
	}
	job.Fields = fields

	if err := codec.Unmarshal(columnBlob(stmt, 5), &job.Command); err != nil {
		return Job{}, fmt.Errorf("decoding command of %q: %w", job.Name, err)
	}
	return job, nil
}

func columnBlob(stmt *sqlite.Stmt, column int) []byte {
	data := make([]byte, stmt.ColumnLen(column))
	stmt.ColumnBytes(column, data)
	return data
}

func unixNanoOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
