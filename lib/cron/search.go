// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"slices"
	"time"
)

// Direction selects which side of the reference instant a search
// looks on.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// step is the unit a carry adds to the next coarser field.
func (d Direction) step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// maxOverflowRestarts bounds how many times a search restarts after
// landing on a day the resolved month does not have (day 31 in April,
// day 30 in February). A schedule that keeps landing on such days, like
// "0 0 0 30 2 *", fails with ErrNoMatch once the bound is reached.
const maxOverflowRestarts = 48

// calendarOrder lists the carry-propagating fields from finest to
// coarsest. Weekday is not part of the carry chain.
var calendarOrder = [...]Field{Second, Minute, Hour, Day, Month}

// snapshot is the calendar decomposition of one instant. It is built
// fresh for every search.
type snapshot struct {
	year   int
	values [fieldCount]int
}

func snapshotOf(t time.Time) snapshot {
	var s snapshot
	s.year = t.Year()
	s.values[Second] = t.Second()
	s.values[Minute] = t.Minute()
	s.values[Hour] = t.Hour()
	s.values[Day] = t.Day()
	s.values[Month] = int(t.Month())
	s.values[Weekday] = int(t.Weekday())
	return s
}

// match is the outcome of searching one field. wrapped is set when no
// value lay on the requested side of the needle and the search fell
// back to the set's extreme, which carries into the next field.
type match struct {
	value   int
	wrapped bool
}

// nearest returns the allowed value closest to needle that is at or
// after it (Forward) or at or before it (Backward). values must be
// non-empty.
func nearest(values ValueSet, needle int, direction Direction) match {
	best, found := 0, false
	for _, value := range values {
		switch direction {
		case Forward:
			if value >= needle && (!found || value < best) {
				best, found = value, true
			}
		case Backward:
			if value <= needle && (!found || value > best) {
				best, found = value, true
			}
		}
	}
	if found {
		return match{value: best}
	}
	return match{value: extreme(values, direction), wrapped: true}
}

// extreme is the first value a field takes after its coarser neighbour
// moves: the smallest going forward, the largest going backward.
func extreme(values ValueSet, direction Direction) int {
	if direction == Backward {
		return slices.Max(values)
	}
	return slices.Min(values)
}

// Next returns the earliest instant at or after reference that the
// schedule allows. reference is decomposed in its own location and
// truncated to the second. An exact match returns reference itself.
func (f Fields) Next(reference time.Time) (time.Time, error) {
	return f.search(reference, Forward)
}

// Previous returns the latest instant at or before reference that the
// schedule allows. An exact match returns reference itself.
func (f Fields) Previous(reference time.Time) (time.Time, error) {
	return f.search(reference, Backward)
}

// Search dispatches to Next or Previous.
func (f Fields) Search(reference time.Time, direction Direction) (time.Time, error) {
	return f.search(reference, direction)
}

func (f Fields) search(reference time.Time, direction Direction) (time.Time, error) {
	if field, empty := f.emptyField(); empty {
		return time.Time{}, fmt.Errorf("%w: %s field allows no values", ErrNoMatch, field)
	}

	reference = reference.Truncate(time.Second)
	referenceWeekday := snapshotOf(reference).values[Weekday]

	from := reference
	for range maxOverflowRestarts {
		candidate, restart, ok := f.resolve(from, direction)
		if ok {
			return shiftWeekday(candidate, f.Weekday, referenceWeekday, direction), nil
		}
		from = restart
	}
	return time.Time{}, fmt.Errorf("%w: no existing date found searching %s from %s",
		ErrNoMatch, direction, reference.Format(time.RFC3339))
}

// resolve runs the carry search over second, minute, hour, day and
// month starting at from. When the resolved day does not exist in the
// resolved month, ok is false and restart is the instant to continue
// searching from: the start of the following month going forward, the
// last second of the resolved month going backward.
func (f Fields) resolve(from time.Time, direction Direction) (candidate, restart time.Time, ok bool) {
	current := snapshotOf(from)

	var resolved [fieldCount]match
	carry := false
	for _, field := range calendarOrder {
		needle := current.values[field]
		if carry {
			needle += direction.step()
		}
		resolved[field] = nearest(f.Get(field), needle, direction)
		carry = resolved[field].wrapped
	}

	// When a coarser field moves off the reference value, every finer
	// field starts over from its extreme.
	for index := len(calendarOrder) - 1; index > 0; index-- {
		field := calendarOrder[index]
		if resolved[field].wrapped || resolved[field].value != current.values[field] {
			for _, finer := range calendarOrder[:index] {
				resolved[finer].value = extreme(f.Get(finer), direction)
			}
			break
		}
	}

	year := current.year
	if carry {
		year += direction.step()
	}
	month := time.Month(resolved[Month].value)
	day := resolved[Day].value
	location := from.Location()

	candidate = time.Date(year, month, day,
		resolved[Hour].value, resolved[Minute].value, resolved[Second].value, 0, location)
	if candidate.Day() == day {
		return candidate, time.Time{}, true
	}

	followingMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, location)
	if direction == Forward {
		return time.Time{}, followingMonth, false
	}
	return time.Time{}, followingMonth.Add(-time.Second), false
}

// shiftWeekday applies the weekday constraint to a resolved candidate.
// The nearest allowed weekday is found relative to the reference
// weekday (not the candidate's), and the candidate moves by that many
// whole 86400-second days. When the reference weekday is itself
// allowed the candidate is returned unchanged.
func shiftWeekday(candidate time.Time, weekdays ValueSet, referenceWeekday int, direction Direction) time.Time {
	target := nearest(weekdays, referenceWeekday, direction)
	if !target.wrapped && target.value == referenceWeekday {
		return candidate
	}

	days := target.value - referenceWeekday
	if target.wrapped {
		days += 7 * direction.step()
	}
	return candidate.Add(time.Duration(days) * 24 * time.Hour)
}
