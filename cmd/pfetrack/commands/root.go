// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the pfetrack command tree.
package commands

import (
	"github.com/pfetrack/pfetrack/cmd/pfetrack/cli"
)

// Root returns the top-level pfetrack command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "pfetrack",
		Summary: "Student project portal client",
		Description: `pfetrack is a command-line client for the PFE project portal:
browse topics, apply to them, manage reports, and consult grades.

Log in once with "pfetrack login"; the session is saved locally and
reused by every other command until logout or expiry.`,
		Subcommands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			RegisterCommand(),
			WhoamiCommand(),
			TopicsCommand(),
			ReportsCommand(),
			GradesCommand(),
			ProfileCommand(),
		},
	}
}
