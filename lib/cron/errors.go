// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import "errors"

var (
	// ErrInvalidExpression reports a crontab string that fails the
	// syntax gate or contains a step that is not a positive integer.
	ErrInvalidExpression = errors.New("cron: invalid expression")

	// ErrNoMatch reports a schedule that no instant can satisfy,
	// usually because a field's value set is empty.
	ErrNoMatch = errors.New("cron: no matching time")
)
