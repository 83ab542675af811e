// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for cronparse.
//
// Configuration is loaded from a single file specified by either the
// CRONPARSE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production defaults to warn-level
// logging when no production section is present.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${CRONPARSE_ROOT}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// A minimal file:
//
//	environment: production
//	location: Europe/Berlin
//	store:
//	  path: /var/lib/cronparse/jobs.db
//	jobs:
//	  - name: rotate-logs
//	    schedule: "0 0 3 * * *"
//	    command: [logrotate, /etc/logrotate.conf]
package config
