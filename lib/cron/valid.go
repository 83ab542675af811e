// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"regexp"
	"strings"
)

// fieldPattern accepts "*" with an optional "/N", or any non-empty run
// of digits, dashes, commas and slashes.
const fieldPattern = `(\*(/[0-9]+)?|[0-9\-,/]+)`

var (
	sixFieldPattern  = regexp.MustCompile(`^` + strings.Repeat(fieldPattern+`\s+`, 5) + fieldPattern + `$`)
	fiveFieldPattern = regexp.MustCompile(`^` + strings.Repeat(fieldPattern+`\s+`, 4) + fieldPattern + `$`)
)

// IsValid reports whether crontab has the syntactic shape of a 5- or
// 6-field crontab string. It is a sieve only: "0 99 * * *" passes even
// though its hour field matches nothing.
func IsValid(crontab string) bool {
	trimmed := strings.TrimSpace(crontab)
	return sixFieldPattern.MatchString(trimmed) || fiveFieldPattern.MatchString(trimmed)
}
