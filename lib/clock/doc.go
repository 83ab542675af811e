// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Schedule evaluation defaults a missing reference instant to "now",
// and waiting for the next fire time needs a timer. Both go through a
// Clock so tests can pin the current time and fire waits
// deterministically:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	engine, _ := cron.New("0 */5 * * * *", cron.WithClock(c))
//	go engine.Wait(ctx)
//	c.WaitForTimers(1)          // the Wait call has registered
//	c.Advance(5 * time.Minute)  // and now returns
//
// Real() is the production implementation.
package clock
