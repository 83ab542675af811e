// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSegment expands a single field expression into the values it
// matches within [minimum, maximum].
//
// Out-of-range literals, empty list elements and malformed ranges
// contribute nothing rather than failing. The only error is a step
// that is missing, non-numeric or not positive, which would otherwise
// never terminate.
//
// In a comma list, a "-" anywhere in the whole expression routes every
// element through range and step handling, not only the elements that
// contain one. "1-5/2,7-9/3" therefore yields [1 3 5 7].
func ParseSegment(expression string, minimum, maximum int) (ValueSet, error) {
	return parseSegment(expression, minimum, maximum, minimum)
}

// parseSegment is ParseSegment with an explicit first value. Values
// below start are excluded; start itself is clamped up to minimum.
func parseSegment(expression string, minimum, maximum, start int) (ValueSet, error) {
	if start < minimum {
		start = minimum
	}

	switch {
	case expression == "*":
		values := make(ValueSet, 0, max(0, maximum-start+1))
		for value := start; value <= maximum; value++ {
			values = append(values, value)
		}
		return values, nil
	case strings.Contains(expression, ","):
		return parseList(expression, minimum, maximum, start)
	case strings.Contains(expression, "/"):
		return parseStep(expression, minimum, maximum, start)
	case strings.Contains(expression, "-"):
		return parseStep(expression+"/1", minimum, maximum, start)
	default:
		return parseLiteral(expression, maximum, start), nil
	}
}

// parseList concatenates the expansions of each comma-separated
// element in list order.
func parseList(expression string, minimum, maximum, start int) (ValueSet, error) {
	routeAll := strings.Contains(expression, "-")

	var values ValueSet
	for _, element := range strings.Split(expression, ",") {
		if routeAll || strings.Contains(element, "/") {
			expanded, err := parseSegment(element, minimum, maximum, start)
			if err != nil {
				return nil, err
			}
			values = append(values, expanded...)
			continue
		}
		values = append(values, parseLiteral(element, maximum, start)...)
	}
	return values, nil
}

// parseStep expands "base/step". A base containing "-" narrows the
// field bounds to that range (never widening them); any other base is
// ignored and enumeration begins at start.
func parseStep(expression string, minimum, maximum, start int) (ValueSet, error) {
	base, stepText, _ := strings.Cut(expression, "/")
	step, err := strconv.Atoi(strings.TrimSpace(stepText))
	if err != nil || step <= 0 {
		return nil, fmt.Errorf("%w: step %q in %q must be a positive integer",
			ErrInvalidExpression, stepText, expression)
	}

	if low, high, isRange := strings.Cut(base, "-"); isRange {
		rangeStart, startErr := strconv.Atoi(strings.TrimSpace(low))
		rangeEnd, endErr := strconv.Atoi(strings.TrimSpace(high))
		if startErr != nil || endErr != nil {
			return nil, nil
		}
		minimum = max(minimum, rangeStart)
		maximum = min(maximum, rangeEnd)
	}

	start = max(start, minimum)
	var values ValueSet
	for value := start; value <= maximum; value += step {
		values = append(values, value)
	}
	return values, nil
}

// parseLiteral returns the single value named by text, or nothing if
// text is not an integer in [start, maximum].
func parseLiteral(text string, maximum, start int) ValueSet {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < start || value > maximum {
		return nil
	}
	return ValueSet{value}
}
