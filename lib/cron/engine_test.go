// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/cronparse/lib/clock"
	"github.com/bureau-foundation/cronparse/lib/testutil"
)

func TestNewRejectsInvalidCrontab(t *testing.T) {
	for _, crontab := range []string{"invalid cron string", "* * * *", "*/0 * * * *"} {
		engine, err := New(crontab)
		if !errors.Is(err, ErrInvalidExpression) {
			t.Errorf("New(%q) error = %v, want ErrInvalidExpression", crontab, err)
		}
		if engine != nil {
			t.Errorf("New(%q) returned a partial engine", crontab)
		}
	}
}

func TestMustNewPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew did not panic on an invalid crontab")
		}
	}()
	MustNew("not a crontab")
}

func TestEngineDefaults(t *testing.T) {
	now := utc(2026, time.February, 17, 10, 7, 12)
	engine, err := New(" 0 */15 * * * * ", WithClock(clock.Fake(now)))
	if err != nil {
		t.Fatal(err)
	}
	if got := engine.Crontab(); got != " 0 */15 * * * * " {
		t.Errorf("Crontab() = %q, want the input unmodified", got)
	}
	if got := engine.StartTime(); got != now.Unix() {
		t.Errorf("StartTime() = %d, want %d", got, now.Unix())
	}
	if engine.Location() != time.Local {
		t.Errorf("Location() = %v, want time.Local", engine.Location())
	}
}

func TestEngineExplicitStartTime(t *testing.T) {
	engine := MustNew("* * * * *", WithStartTime(-86400), WithClock(clock.Fake(utc(2026, 1, 1, 0, 0, 0))))
	if got := engine.StartTime(); got != -86400 {
		t.Errorf("StartTime() = %d, want -86400", got)
	}
	engine.SetStartTime(42)
	if got := engine.StartTime(); got != 42 {
		t.Errorf("StartTime() after SetStartTime = %d, want 42", got)
	}
}

func TestEngineTimestamps(t *testing.T) {
	engine := MustNew("0 */15 * * * *", WithLocation(time.UTC))
	reference := utc(2026, time.February, 17, 10, 7, 12).Unix()

	next, err := engine.NextTimestamp(reference)
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, time.February, 17, 10, 15, 0).Unix(); next != want {
		t.Errorf("NextTimestamp(%d) = %d, want %d", reference, next, want)
	}

	previous, err := engine.PreviousTimestamp(reference)
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, time.February, 17, 10, 0, 0).Unix(); previous != want {
		t.Errorf("PreviousTimestamp(%d) = %d, want %d", reference, previous, want)
	}
}

func TestEngineFromNow(t *testing.T) {
	fake := clock.Fake(utc(2026, time.March, 10, 0, 0, 0))
	engine := MustNew("0 0 0 1 1 *", WithClock(fake), WithLocation(time.UTC))

	next, err := engine.NextFromNow()
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2027, time.January, 1, 0, 0, 0).Unix(); next != want {
		t.Errorf("NextFromNow() = %d, want %d", next, want)
	}

	previous, err := engine.PreviousFromNow()
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, time.January, 1, 0, 0, 0).Unix(); previous != want {
		t.Errorf("PreviousFromNow() = %d, want %d", previous, want)
	}
}

func TestEngineLocationDecomposesFields(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	engine := MustNew("0 0 9 * * *", WithLocation(tokyo))

	// 2026-02-17 00:30 UTC is 09:30 in Tokyo; the next 09:00 there is
	// the following morning.
	next, err := engine.Next(utc(2026, time.February, 17, 0, 30, 0))
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, time.February, 18, 0, 0, 0); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestEngineSetCrontab(t *testing.T) {
	engine := MustNew("0 0 * * * *", WithLocation(time.UTC))
	reference := utc(2026, time.February, 17, 10, 7, 12)

	if err := engine.SetCrontab("0 30 * * * *"); err != nil {
		t.Fatalf("SetCrontab: %v", err)
	}
	next, err := engine.Next(reference)
	if err != nil {
		t.Fatal(err)
	}
	if want := utc(2026, time.February, 17, 10, 30, 0); !next.Equal(want) {
		t.Errorf("Next after SetCrontab = %v, want %v", next, want)
	}

	if err := engine.SetCrontab("*/0 * * * *"); !errors.Is(err, ErrInvalidExpression) {
		t.Fatalf("SetCrontab(invalid) error = %v, want ErrInvalidExpression", err)
	}
	if got := engine.Crontab(); got != "0 30 * * * *" {
		t.Errorf("failed SetCrontab changed Crontab() to %q", got)
	}
}

func TestEngineSetFields(t *testing.T) {
	engine := MustNew("0 0 * * * *", WithLocation(time.UTC))
	fields := engine.Fields()
	fields.Hour = nil
	engine.SetFields(fields)

	_, err := engine.NextTimestamp(utc(2026, time.February, 17, 10, 0, 0).Unix())
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("NextTimestamp with an empty hour set: error = %v, want ErrNoMatch", err)
	}
	if !strings.Contains(err.Error(), `"0 0 * * * *"`) {
		t.Errorf("error %q does not name the crontab", err)
	}
	if got := engine.Crontab(); got != "0 0 * * * *" {
		t.Errorf("SetFields changed Crontab() to %q", got)
	}
}

func TestEngineFieldsReturnsCopy(t *testing.T) {
	engine := MustNew("0 0,30 * * * *")
	fields := engine.Fields()
	fields.Minute[0] = 45
	if got := engine.Fields().Minute[0]; got != 0 {
		t.Errorf("mutating Fields() result changed the engine: Minute[0] = %d", got)
	}
}

func TestEngineWait(t *testing.T) {
	fake := clock.Fake(utc(2026, time.January, 1, 0, 0, 0))
	engine := MustNew("0 */5 * * * *", WithClock(fake), WithLocation(time.UTC))

	result := make(chan time.Time, 1)
	go func() {
		fired, err := engine.Wait(context.Background())
		if err != nil {
			t.Errorf("Wait: %v", err)
		}
		result <- fired
	}()

	// The current instant matches, but Wait looks strictly after it.
	fake.WaitForTimers(1)
	fake.Advance(5 * time.Minute)

	fired := testutil.RequireReceive(t, result, 5*time.Second, "Wait did not return after advancing the clock")
	if want := utc(2026, time.January, 1, 0, 5, 0); !fired.Equal(want) {
		t.Errorf("Wait() = %v, want %v", fired, want)
	}
}

func TestEngineWaitCancelled(t *testing.T) {
	fake := clock.Fake(utc(2026, time.January, 1, 0, 0, 0))
	engine := MustNew("0 0 0 1 1 *", WithClock(fake), WithLocation(time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := engine.Wait(ctx)
		errs <- err
	}()

	fake.WaitForTimers(1)
	cancel()

	err := testutil.RequireReceive(t, errs, 5*time.Second, "Wait did not return after cancellation")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
}
