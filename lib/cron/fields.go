// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/cronparse/lib/codec"
)

// Fields holds the value set of every schedule dimension. Values
// produced by [ParseFields] are never mutated afterwards; callers that
// need to change a set should build a new Fields.
type Fields struct {
	Second  ValueSet `json:"second"`
	Minute  ValueSet `json:"minute"`
	Hour    ValueSet `json:"hour"`
	Day     ValueSet `json:"day"`
	Month   ValueSet `json:"month"`
	Weekday ValueSet `json:"weekday"`
}

// ParseFields validates crontab with [IsValid] and expands each of its
// fields. A 5-field string has no seconds field; its Second set is
// fixed at {0}.
func ParseFields(crontab string) (Fields, error) {
	if !IsValid(crontab) {
		return Fields{}, fmt.Errorf("%w: %q", ErrInvalidExpression, crontab)
	}

	tokens := strings.Fields(crontab)
	var fields Fields
	first := Second
	switch len(tokens) {
	case fieldCount:
	case fieldCount - 1:
		fields.Second = ValueSet{0}
		first = Minute
	default:
		return Fields{}, fmt.Errorf("%w: expected 5 or 6 fields, got %d", ErrInvalidExpression, len(tokens))
	}

	for index, token := range tokens {
		field := first + Field(index)
		minimum, maximum := field.Bounds()
		values, err := ParseSegment(token, minimum, maximum)
		if err != nil {
			return Fields{}, fmt.Errorf("%s field: %w", field, err)
		}
		*fields.slot(field) = values
	}
	return fields, nil
}

// Get returns the value set of field.
func (f Fields) Get(field Field) ValueSet {
	return *f.slot(field)
}

func (f *Fields) slot(field Field) *ValueSet {
	switch field {
	case Second:
		return &f.Second
	case Minute:
		return &f.Minute
	case Hour:
		return &f.Hour
	case Day:
		return &f.Day
	case Month:
		return &f.Month
	case Weekday:
		return &f.Weekday
	}
	panic(fmt.Sprintf("cron: unknown field %d", int(field)))
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	var clone Fields
	for field := Second; field < fieldCount; field++ {
		*clone.slot(field) = f.Get(field).Clone()
	}
	return clone
}

// emptyField returns the first field whose set is empty.
func (f Fields) emptyField() (Field, bool) {
	for field := Second; field < fieldCount; field++ {
		if len(f.Get(field)) == 0 {
			return field, true
		}
	}
	return 0, false
}

// Canonical returns a copy with every set sorted ascending and
// de-duplicated. Two crontabs matching the same instants have equal
// canonical forms.
func (f Fields) Canonical() Fields {
	var canonical Fields
	for field := Second; field < fieldCount; field++ {
		values := append(ValueSet{}, f.Get(field)...)
		slices.Sort(values)
		*canonical.slot(field) = slices.Compact(values)
	}
	return canonical
}

// Fingerprint returns the hex BLAKE3-256 digest of the canonical
// fields in deterministic CBOR.
func (f Fields) Fingerprint() (string, error) {
	data, err := codec.Marshal(f.Canonical())
	if err != nil {
		return "", fmt.Errorf("cron: encoding fields for fingerprint: %w", err)
	}
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:]), nil
}
