// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scheduler runs commands on crontab schedules.
//
// A [Scheduler] owns a set of named jobs. Each job's firing times come
// from a cron.Engine; a robfig/cron runner supplies the timer loop,
// panic recovery and overlap suppression. Every firing calls the
// configured [Handler] inside an OpenTelemetry span, records run,
// failure and duration metrics, and persists the outcome to the
// optional SQLite-backed [Store].
//
// Jobs are declared as [JobSpec] values. [Scheduler.Sync] reconciles
// the registered set against a declared list by name: a job whose
// schedule fingerprint and command are unchanged keeps its ID and run
// history, so reformatting a crontab ("0,30" versus "*/30") does not
// reset a job.
//
//	store, _ := scheduler.OpenStore(scheduler.StoreConfig{Path: path})
//	runner, _ := scheduler.New(scheduler.Config{
//	    Handler: scheduler.CommandHandler(os.Stdout, os.Stderr),
//	    Store:   store,
//	})
//	runner.Load(ctx)
//	runner.Sync(ctx, specs)
//	runner.Start()
//	defer runner.Stop(drainCtx)
package scheduler
