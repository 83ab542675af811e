// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import "fmt"

// Field identifies one schedule dimension. The order of the constants
// is the positional order of a 6-field crontab string.
type Field int

const (
	Second Field = iota
	Minute
	Hour
	Day
	Month
	Weekday
)

// fieldCount is the number of schedule dimensions.
const fieldCount = 6

// bounds is the natural inclusive range of a field.
type bounds struct {
	minimum, maximum int
	name             string
}

var fieldBounds = [fieldCount]bounds{
	Second:  {0, 59, "second"},
	Minute:  {0, 59, "minute"},
	Hour:    {0, 23, "hour"},
	Day:     {1, 31, "day"},
	Month:   {1, 12, "month"},
	Weekday: {0, 6, "weekday"},
}

// String returns the lowercase field name ("second", "minute", ...).
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldBounds[f].name
}

// Bounds returns the natural inclusive range of the field.
func (f Field) Bounds() (minimum, maximum int) {
	b := fieldBounds[f]
	return b.minimum, b.maximum
}

// ValueSet is the list of values a field may take. Sets produced by
// [ParseSegment] keep the order in which the expression listed them
// and are not de-duplicated; searches compare by value, so neither
// affects results.
type ValueSet []int

// Contains reports whether value is in the set.
func (v ValueSet) Contains(value int) bool {
	for _, candidate := range v {
		if candidate == value {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set. A nil set stays nil.
func (v ValueSet) Clone() ValueSet {
	if v == nil {
		return nil
	}
	return append(ValueSet(make([]int, 0, len(v))), v...)
}
