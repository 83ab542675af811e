// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"slices"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Location string        `flag:"location" desc:"time zone"`
		Verbose  bool          `flag:"verbose,v" desc:"enable verbose output"`
		Count    int           `flag:"count,n" desc:"number of results"`
		Timeout  time.Duration `flag:"timeout" desc:"drain timeout"`
		Jobs     []string      `flag:"jobs" desc:"job names"`
		Untagged string        // no flag tag, skipped
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	err := flagSet.Parse([]string{
		"--location", "Asia/Tokyo",
		"-v",
		"-n", "3",
		"--timeout", "30s",
		"--jobs", "backup,report",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Location != "Asia/Tokyo" {
		t.Errorf("Location = %q", p.Location)
	}
	if !p.Verbose {
		t.Error("Verbose = false, want true")
	}
	if p.Count != 3 {
		t.Errorf("Count = %d, want 3", p.Count)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", p.Timeout)
	}
	if !slices.Equal(p.Jobs, []string{"backup", "report"}) {
		t.Errorf("Jobs = %v", p.Jobs)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Location string        `flag:"location" default:"Local"`
		Count    int           `flag:"count" default:"1"`
		JSON     bool          `flag:"json" default:"true"`
		Timeout  time.Duration `flag:"timeout" default:"10s"`
		Jobs     []string      `flag:"jobs" default:"a,b"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if p.Location != "Local" || p.Count != 1 || !p.JSON || p.Timeout != 10*time.Second || !slices.Equal(p.Jobs, []string{"a", "b"}) {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestBindFlags_EmbeddedJSONOutput(t *testing.T) {
	type params struct {
		JSONOutput
		At string `flag:"at"`
	}
	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--json"}); err != nil {
		t.Fatal(err)
	}
	if !p.OutputJSON {
		t.Error("--json did not set the embedded OutputJSON")
	}
}

func TestBindFlags_Errors(t *testing.T) {
	var notPointer struct{}
	if err := BindFlags(notPointer, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}

	type unsupported struct {
		Rate float32 `flag:"rate"`
	}
	if err := BindFlags(&unsupported{}, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags accepted an unsupported field type")
	}

	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault{}, pflag.NewFlagSet("test", pflag.ContinueOnError)); err == nil {
		t.Error("BindFlags accepted an unparseable default")
	}
}
