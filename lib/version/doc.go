// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the cronparse
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/cronparse/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// [Current] collects them into a [Build], falling back to the VCS
// stamp embedded by the Go toolchain when no commit was injected.
package version
