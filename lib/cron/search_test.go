// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"errors"
	"testing"
	"time"
)

func utc(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

func mustParseFields(t *testing.T, crontab string) Fields {
	t.Helper()
	fields, err := ParseFields(crontab)
	if err != nil {
		t.Fatalf("ParseFields(%q): %v", crontab, err)
	}
	return fields
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		crontab   string
		reference time.Time
		next      time.Time
		previous  time.Time
	}{
		{
			name:      "quarter hour",
			crontab:   "0 */15 * * * *",
			reference: utc(2026, time.February, 17, 10, 7, 12),
			next:      utc(2026, time.February, 17, 10, 15, 0),
			previous:  utc(2026, time.February, 17, 10, 0, 0),
		},
		{
			name:      "exact match is returned by both directions",
			crontab:   "0 */15 * * * *",
			reference: utc(2026, time.February, 17, 10, 15, 0),
			next:      utc(2026, time.February, 17, 10, 15, 0),
			previous:  utc(2026, time.February, 17, 10, 15, 0),
		},
		{
			name:      "sub-second reference is truncated",
			crontab:   "0 */15 * * * *",
			reference: utc(2026, time.February, 17, 10, 15, 0).Add(500 * time.Millisecond),
			next:      utc(2026, time.February, 17, 10, 15, 0),
			previous:  utc(2026, time.February, 17, 10, 15, 0),
		},
		{
			name:      "five fields run on the minute",
			crontab:   "* * * * *",
			reference: utc(2026, time.February, 17, 10, 7, 12),
			next:      utc(2026, time.February, 17, 10, 8, 0),
			previous:  utc(2026, time.February, 17, 10, 7, 0),
		},
		{
			name:      "coarser change resets finer fields",
			crontab:   "0 0,30 14 * * *",
			reference: utc(2026, time.February, 17, 10, 5, 0),
			next:      utc(2026, time.February, 17, 14, 0, 0),
			previous:  utc(2026, time.February, 16, 14, 30, 0),
		},
		{
			name:      "carry into the year",
			crontab:   "0 0 0 1 1 *",
			reference: utc(2026, time.March, 10, 0, 0, 0),
			next:      utc(2027, time.January, 1, 0, 0, 0),
			previous:  utc(2026, time.January, 1, 0, 0, 0),
		},
		{
			name:      "borrow across the year",
			crontab:   "0 0 12 31 12 *",
			reference: utc(2026, time.June, 1, 0, 0, 0),
			next:      utc(2026, time.December, 31, 12, 0, 0),
			previous:  utc(2025, time.December, 31, 12, 0, 0),
		},
		{
			name:      "end of minute carries through every field",
			crontab:   "* * * * * *",
			reference: utc(2026, time.December, 31, 23, 59, 59),
			next:      utc(2026, time.December, 31, 23, 59, 59),
			previous:  utc(2026, time.December, 31, 23, 59, 59),
		},
		{
			name:      "new year from the last second",
			crontab:   "0 0 0 * * *",
			reference: utc(2026, time.December, 31, 23, 59, 59),
			next:      utc(2027, time.January, 1, 0, 0, 0),
			previous:  utc(2026, time.December, 31, 0, 0, 0),
		},
		{
			name:      "day missing from the month is skipped",
			crontab:   "0 0 0 31 * *",
			reference: utc(2026, time.April, 10, 0, 0, 0),
			next:      utc(2026, time.May, 31, 0, 0, 0),
			previous:  utc(2026, time.March, 31, 0, 0, 0),
		},
		{
			name:      "leap day",
			crontab:   "0 0 0 29 2 *",
			reference: utc(2026, time.March, 1, 0, 0, 0),
			next:      utc(2028, time.February, 29, 0, 0, 0),
			previous:  utc(2024, time.February, 29, 0, 0, 0),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fields := mustParseFields(t, test.crontab)

			next, err := fields.Next(test.reference)
			if err != nil {
				t.Fatalf("Next(%v): %v", test.reference, err)
			}
			if !next.Equal(test.next) {
				t.Errorf("Next(%v) = %v, want %v", test.reference, next, test.next)
			}

			previous, err := fields.Previous(test.reference)
			if err != nil {
				t.Fatalf("Previous(%v): %v", test.reference, err)
			}
			if !previous.Equal(test.previous) {
				t.Errorf("Previous(%v) = %v, want %v", test.reference, previous, test.previous)
			}

			if next.Before(test.reference.Truncate(time.Second)) {
				t.Errorf("Next %v is before the reference", next)
			}
			if previous.After(test.reference) {
				t.Errorf("Previous %v is after the reference", previous)
			}
		})
	}
}

func TestSearchMonthOverflowBackward(t *testing.T) {
	fields := mustParseFields(t, "0 0 0 31 * *")
	reference := utc(2026, time.March, 2, 12, 0, 0)

	previous, err := fields.Previous(reference)
	if err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if want := utc(2026, time.January, 31, 0, 0, 0); !previous.Equal(want) {
		t.Errorf("Previous(%v) = %v, want %v", reference, previous, want)
	}
}

func TestSearchWeekdayOverride(t *testing.T) {
	// 2026-02-17 is a Tuesday and 2026-02-21 a Saturday. The weekday
	// shift is measured from the reference weekday, not from the
	// candidate the other fields resolved to.
	tests := []struct {
		name      string
		crontab   string
		reference time.Time
		direction Direction
		want      time.Time
	}{
		{
			name:      "forward to a later weekday",
			crontab:   "0 0 9 * * 5",
			reference: utc(2026, time.February, 17, 8, 0, 0),
			direction: Forward,
			want:      utc(2026, time.February, 20, 9, 0, 0),
		},
		{
			name:      "reference weekday allowed",
			crontab:   "0 0 9 * * 2",
			reference: utc(2026, time.February, 17, 8, 0, 0),
			direction: Forward,
			want:      utc(2026, time.February, 17, 9, 0, 0),
		},
		{
			name:      "backward wraps to the previous week",
			crontab:   "0 0 9 * * 5",
			reference: utc(2026, time.February, 17, 8, 0, 0),
			direction: Backward,
			want:      utc(2026, time.February, 12, 9, 0, 0),
		},
		{
			name:      "forward wrap shifts from the rolled candidate",
			crontab:   "0 0 9 * * 1",
			reference: utc(2026, time.February, 21, 10, 0, 0),
			direction: Forward,
			want:      utc(2026, time.February, 24, 9, 0, 0),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fields := mustParseFields(t, test.crontab)
			got, err := fields.Search(test.reference, test.direction)
			if err != nil {
				t.Fatalf("Search(%v, %s): %v", test.reference, test.direction, err)
			}
			if !got.Equal(test.want) {
				t.Errorf("Search(%v, %s) = %v (%s), want %v (%s)",
					test.reference, test.direction, got, got.Weekday(), test.want, test.want.Weekday())
			}
		})
	}
}

func TestSearchEmptyFieldIsNoMatch(t *testing.T) {
	fields := mustParseFields(t, "0 99 * * *")
	reference := utc(2026, time.February, 17, 10, 0, 0)

	for _, direction := range []Direction{Forward, Backward} {
		_, err := fields.Search(reference, direction)
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("Search %s error = %v, want ErrNoMatch", direction, err)
		}
	}
}

func TestSearchImpossibleDateIsNoMatch(t *testing.T) {
	fields := mustParseFields(t, "0 0 0 30 2 *")
	_, err := fields.Next(utc(2026, time.January, 1, 0, 0, 0))
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("Next error = %v, want ErrNoMatch", err)
	}
}

func TestSearchKeepsReferenceLocation(t *testing.T) {
	location := time.FixedZone("UTC+5", 5*60*60)
	fields := mustParseFields(t, "0 0 9 * * *")
	reference := time.Date(2026, time.February, 17, 8, 0, 0, 0, location)

	next, err := fields.Next(reference)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, time.February, 17, 9, 0, 0, 0, location); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
	if next.Location() != location {
		t.Errorf("Next location = %v, want %v", next.Location(), location)
	}
}

func TestNearest(t *testing.T) {
	values := ValueSet{30, 10, 20}
	tests := []struct {
		needle    int
		direction Direction
		want      match
	}{
		{10, Forward, match{value: 10}},
		{11, Forward, match{value: 20}},
		{31, Forward, match{value: 10, wrapped: true}},
		{25, Backward, match{value: 20}},
		{9, Backward, match{value: 30, wrapped: true}},
		{30, Backward, match{value: 30}},
	}
	for _, test := range tests {
		if got := nearest(values, test.needle, test.direction); got != test.want {
			t.Errorf("nearest(%v, %d, %s) = %+v, want %+v", values, test.needle, test.direction, got, test.want)
		}
	}
}
