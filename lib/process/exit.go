// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitCoder is implemented by errors that carry their own exit status
// and whose message has already been reported.
type ExitCoder interface {
	ExitCode() int
}

// Exit terminates the process according to err: status 0 for nil, the
// error's own status for an [ExitCoder], and status 1 after printing
// "error: err" to stderr otherwise. Call it once, at the end of main.
func Exit(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes err to w unless it is nil or an [ExitCoder], and
// returns the status Exit would use.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
