// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bureau-foundation/cronparse/cmd/cronparse/cli"
	"github.com/bureau-foundation/cronparse/lib/codec"
	"github.com/bureau-foundation/cronparse/lib/cron"
)

// crontabArgument joins the positional arguments into one crontab
// string, so both "cronparse next '0 * * * *'" and an unquoted
// "cronparse next -- 0 '*' '*' '*' '*'" work.
func crontabArgument(args []string) (string, error) {
	crontab := strings.Join(args, " ")
	if strings.TrimSpace(crontab) == "" {
		return "", fmt.Errorf("crontab argument required")
	}
	return crontab, nil
}

// parseReference parses an --at value: empty for now, an integer for
// Unix seconds, anything else as RFC 3339.
func parseReference(text string, now time.Time) (time.Time, error) {
	if text == "" {
		return now, nil
	}
	if seconds, err := strconv.ParseInt(text, 10, 64); err == nil {
		return time.Unix(seconds, 0), nil
	}
	reference, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC 3339 or Unix seconds: %q", text)
	}
	return reference, nil
}

type validateParams struct {
	cli.JSONOutput
}

type validateResult struct {
	Crontab string `json:"crontab"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
}

func validateCommand(env commandEnv) *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check whether a crontab string parses",
		Description: `Check whether a crontab string parses.

Exits 0 when the string is a valid 5- or 6-field crontab and 1 when it
is not. A crontab whose fields match nothing (such as hour 99) is
valid; "cronparse next" reports that it never fires.`,
		Usage:  "cronparse validate <crontab> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			crontab, err := crontabArgument(args)
			if err != nil {
				return err
			}

			result := validateResult{Crontab: crontab, Valid: true}
			if _, parseErr := cron.ParseFields(crontab); parseErr != nil {
				result.Valid = false
				result.Error = parseErr.Error()
			}

			if done, err := params.EmitJSON(env.stdout, result); done {
				if err == nil && !result.Valid {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			if !result.Valid {
				fmt.Fprintf(env.stdout, "invalid: %s\n", result.Error)
				return &cli.ExitError{Code: 1}
			}
			_, err = fmt.Fprintf(env.stdout, "valid: %s\n", crontab)
			return err
		},
	}
}

type searchParams struct {
	cli.JSONOutput
	At       string `json:"at"       flag:"at"       desc:"reference instant (RFC 3339 or Unix seconds; default now)"`
	Location string `json:"location" flag:"location" desc:"time zone for calendar fields" default:"Local"`
	Count    int    `json:"count"    flag:"count,n"  desc:"number of fire times to print" default:"1"`
}

type searchResult struct {
	Time time.Time `json:"time"`
	Unix int64     `json:"unix"`
}

// searchCommand builds "next" or "prev".
func searchCommand(env commandEnv, name string) *cli.Command {
	var params searchParams

	direction := cron.Forward
	summary := "Print the next fire times at or after an instant"
	if name == "prev" {
		direction = cron.Backward
		summary = "Print the previous fire times at or before an instant"
	}

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Description: summary + `.

An instant that matches the crontab is its own result. Further results
(--count) continue one second past the previous one.`,
		Usage:  "cronparse " + name + " <crontab> [flags]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Quarter hours after a fixed instant",
				Command:     "cronparse " + name + " --at 2026-02-17T10:07:12Z --location UTC -n 4 '0 */15 * * * *'",
			},
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			crontab, err := crontabArgument(args)
			if err != nil {
				return err
			}
			if params.Count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			location, err := time.LoadLocation(params.Location)
			if err != nil {
				return fmt.Errorf("--location: %w", err)
			}
			reference, err := parseReference(params.At, env.clock.Now())
			if err != nil {
				return err
			}
			engine, err := cron.New(crontab, cron.WithClock(env.clock), cron.WithLocation(location))
			if err != nil {
				return err
			}

			results, err := searchMany(engine, reference, direction, params.Count)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.stdout, results); done {
				return err
			}
			for _, result := range results {
				if _, err := fmt.Fprintln(env.stdout, result.Time.Format(time.RFC3339)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// searchMany collects count consecutive fire times from reference.
func searchMany(engine *cron.Engine, reference time.Time, direction cron.Direction, count int) ([]searchResult, error) {
	search, step := engine.Next, time.Second
	if direction == cron.Backward {
		search, step = engine.Previous, -time.Second
	}

	results := make([]searchResult, 0, count)
	for range count {
		found, err := search(reference)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", engine.Crontab(), err)
		}
		results = append(results, searchResult{Time: found, Unix: found.Unix()})
		reference = found.Add(step)
	}
	return results, nil
}

type fieldsParams struct {
	cli.JSONOutput
	CBOR bool `json:"cbor" flag:"cbor" desc:"print the fingerprinted CBOR in diagnostic notation"`
}

type fieldsResult struct {
	Crontab     string      `json:"crontab"`
	Fields      cron.Fields `json:"fields"`
	Fingerprint string      `json:"fingerprint"`
}

func fieldsCommand(env commandEnv) *cli.Command {
	var params fieldsParams

	return &cli.Command{
		Name:    "fields",
		Summary: "Print the values each field of a crontab allows",
		Description: `Print the values each field of a crontab allows, and the
schedule's fingerprint.

Two crontabs with the same fingerprint fire at exactly the same
instants. The fingerprint is the BLAKE3 digest of the sorted,
de-duplicated value sets in deterministic CBOR; --cbor shows that
encoding.`,
		Usage:  "cronparse fields <crontab> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			crontab, err := crontabArgument(args)
			if err != nil {
				return err
			}
			fields, err := cron.ParseFields(crontab)
			if err != nil {
				return err
			}
			fingerprint, err := fields.Fingerprint()
			if err != nil {
				return err
			}

			result := fieldsResult{Crontab: crontab, Fields: fields.Canonical(), Fingerprint: fingerprint}
			if done, err := params.EmitJSON(env.stdout, result); done {
				return err
			}

			writer := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			for field := cron.Second; field <= cron.Weekday; field++ {
				fmt.Fprintf(writer, "%s\t%s\n", field, formatValues(result.Fields.Get(field)))
			}
			fmt.Fprintf(writer, "fingerprint\t%s\n", fingerprint)
			if err := writer.Flush(); err != nil {
				return err
			}

			if params.CBOR {
				data, err := codec.Marshal(result.Fields)
				if err != nil {
					return err
				}
				notation, err := codec.Diagnose(data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(env.stdout, notation)
				return err
			}
			return nil
		},
	}
}

// formatValues renders a value set as a comma list, or "(none)".
func formatValues(values cron.ValueSet) string {
	if len(values) == 0 {
		return "(none)"
	}
	parts := make([]string, len(values))
	for index, value := range values {
		parts[index] = strconv.Itoa(value)
	}
	return strings.Join(parts, ",")
}

type waitParams struct {
	Location string `json:"location" flag:"location" desc:"time zone for calendar fields" default:"Local"`
}

func waitCommand(env commandEnv) *cli.Command {
	var params waitParams

	return &cli.Command{
		Name:    "wait",
		Summary: "Block until the next fire time, then print it",
		Description: `Block until the crontab next fires after the current second, then
print that instant and exit 0. Interrupting the wait exits non-zero.

Useful in shell loops that should run on a schedule without a daemon.`,
		Usage:  "cronparse wait <crontab> [flags]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Rotate logs at the top of every hour",
				Command:     "while cronparse wait '0 0 * * * *'; do rotate-logs; done",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			crontab, err := crontabArgument(args)
			if err != nil {
				return err
			}
			location, err := time.LoadLocation(params.Location)
			if err != nil {
				return fmt.Errorf("--location: %w", err)
			}
			engine, err := cron.New(crontab, cron.WithClock(env.clock), cron.WithLocation(location))
			if err != nil {
				return err
			}

			fired, err := engine.Wait(ctx)
			if errors.Is(err, context.Canceled) {
				logger.Info("wait interrupted", "crontab", crontab)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(env.stdout, fired.Format(time.RFC3339))
			return err
		},
	}
}
