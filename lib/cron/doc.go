// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses 5- and 6-field crontab strings and finds the
// nearest matching instant before or after a reference time.
//
// Field layout:
//
//	┌───────────── second (0-59) [optional]
//	│ ┌───────────── minute (0-59)
//	│ │ ┌───────────── hour (0-23)
//	│ │ │ ┌───────────── day of month (1-31)
//	│ │ │ │ ┌───────────── month (1-12)
//	│ │ │ │ │ ┌───────────── day of week (0-6, 0=Sunday)
//	│ │ │ │ │ │
//	* * * * * *
//
// A 5-field string omits the seconds field, which is then fixed at 0.
//
// Each field supports:
//   - Wildcard: *
//   - Single values: 5
//   - Lists: 1,3,5
//   - Ranges: 1-5
//   - Steps: */15, 0/15, 1-30/5
//
// No L, W, or # tokens and no named days or months.
//
// Parsing is permissive and searching is strict. Values outside a
// field's bounds are dropped silently, so a schedule like "0 99 * * *"
// parses into an empty hour set and every search on it fails with
// [ErrNoMatch]. Only strings failing the syntax gate ([IsValid]) and
// non-positive step values fail with [ErrInvalidExpression].
//
// The search resolves second, minute, hour, day and month like a
// mixed-radix counter whose digits are restricted to each field's
// allowed values. The weekday constraint is applied afterwards as an
// override: the candidate is shifted by whole days toward the nearest
// allowed weekday counted from the reference instant's weekday. The
// result may therefore land on a day of month that the day field does
// not allow. Both directions treat an exact match at the reference
// instant as a valid result.
//
// Key exports:
//
//   - [ParseSegment] -- expands one field expression into a [ValueSet]
//   - [ParseFields] -- builds the six value sets for a crontab string
//   - [Fields.Next] and [Fields.Previous] -- the nearest-match search
//   - [Engine] -- a crontab bound to a clock and a location
package cron
