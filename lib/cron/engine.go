// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/bureau-foundation/cronparse/lib/clock"
)

// Engine binds a parsed crontab string to a clock and a location.
//
// An Engine is read-only after New returns and may be shared by
// concurrent readers. The Set* mutators are not synchronized; callers
// must not run them concurrently with queries on the same Engine.
type Engine struct {
	crontab   string
	fields    Fields
	startTime int64
	started   bool
	clock     clock.Clock
	location  *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for "now" defaults. Default: clock.Real().
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLocation sets the location in which timestamps are decomposed
// into calendar fields. Default: time.Local.
func WithLocation(location *time.Location) Option {
	return func(e *Engine) { e.location = location }
}

// WithStartTime records a start time (Unix seconds). It is stored for
// callers and does not influence searches. Default: the clock's now.
func WithStartTime(unixSeconds int64) Option {
	return func(e *Engine) {
		e.startTime = unixSeconds
		e.started = true
	}
}

// New validates and parses crontab. It fails with ErrInvalidExpression
// when the string does not pass [IsValid] or a step is not positive;
// no partial Engine is returned.
func New(crontab string, options ...Option) (*Engine, error) {
	fields, err := ParseFields(crontab)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		crontab: crontab,
		fields:  fields,
	}
	for _, option := range options {
		option(engine)
	}
	if engine.clock == nil {
		engine.clock = clock.Real()
	}
	if engine.location == nil {
		engine.location = time.Local
	}
	if !engine.started {
		engine.startTime = engine.clock.Now().Unix()
	}
	return engine, nil
}

// MustNew is New for crontab strings known at compile time. It panics
// on error.
func MustNew(crontab string, options ...Option) *Engine {
	engine, err := New(crontab, options...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Crontab returns the string the Engine was built from, unmodified.
func (e *Engine) Crontab() string { return e.crontab }

// Fields returns a copy of the resolved value sets.
func (e *Engine) Fields() Fields { return e.fields.Clone() }

// StartTime returns the recorded start time in Unix seconds.
func (e *Engine) StartTime() int64 { return e.startTime }

// Location returns the location used for calendar decomposition.
func (e *Engine) Location() *time.Location { return e.location }

// SetCrontab replaces the crontab string and re-parses it. On error the
// Engine is left unchanged.
func (e *Engine) SetCrontab(crontab string) error {
	fields, err := ParseFields(crontab)
	if err != nil {
		return err
	}
	e.crontab = crontab
	e.fields = fields
	return nil
}

// SetFields replaces the resolved value sets without validating them
// and without touching the crontab string. Empty sets make every
// search fail with ErrNoMatch.
func (e *Engine) SetFields(fields Fields) {
	e.fields = fields.Clone()
}

// SetStartTime replaces the recorded start time.
func (e *Engine) SetStartTime(unixSeconds int64) { e.startTime = unixSeconds }

// Next returns the nearest allowed instant at or after t, in the
// Engine's location.
func (e *Engine) Next(t time.Time) (time.Time, error) {
	return e.fields.Next(t.In(e.location))
}

// Previous returns the nearest allowed instant at or before t, in the
// Engine's location.
func (e *Engine) Previous(t time.Time) (time.Time, error) {
	return e.fields.Previous(t.In(e.location))
}

// NextTimestamp is Next on Unix seconds.
func (e *Engine) NextTimestamp(current int64) (int64, error) {
	return e.searchTimestamp(current, Forward)
}

// PreviousTimestamp is Previous on Unix seconds.
func (e *Engine) PreviousTimestamp(current int64) (int64, error) {
	return e.searchTimestamp(current, Backward)
}

// NextFromNow is NextTimestamp at the clock's current time.
func (e *Engine) NextFromNow() (int64, error) {
	return e.searchTimestamp(e.clock.Now().Unix(), Forward)
}

// PreviousFromNow is PreviousTimestamp at the clock's current time.
func (e *Engine) PreviousFromNow() (int64, error) {
	return e.searchTimestamp(e.clock.Now().Unix(), Backward)
}

func (e *Engine) searchTimestamp(current int64, direction Direction) (int64, error) {
	result, err := e.fields.search(time.Unix(current, 0).In(e.location), direction)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", e.crontab, err)
	}
	return result.Unix(), nil
}

// Wait blocks until the first allowed instant strictly after the
// clock's current second and returns it. It returns ctx.Err() if the
// context ends first.
func (e *Engine) Wait(ctx context.Context) (time.Time, error) {
	now := e.clock.Now()
	next, err := e.Next(now.Truncate(time.Second).Add(time.Second))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", e.crontab, err)
	}
	select {
	case <-e.clock.After(next.Sub(now)):
		return next, nil
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	}
}
