// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pfetrack/pfetrack/cmd/pfetrack/cli"
	"github.com/pfetrack/pfetrack/portal"
)

// ProfileCommand returns the "profile" command group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:    "profile",
		Summary: "View and edit your profile",
		Subcommands: []*cli.Command{
			profileShowCommand(),
			profileUpdateCommand(),
		},
	}
}

func profileShowCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "show",
		Summary: "Show your profile as the server sees it",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("show", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "profile/show")
			if err != nil {
				return err
			}
			defer cancel()

			// Unlike whoami, this asks the server, so it also verifies
			// the saved token is still accepted.
			user, err := app.Session.Profile.Get(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(user)
			}
			fmt.Printf("%s (%s)\n", user.Username, user.Role)
			if user.Name != "" {
				fmt.Printf("  name:  %s\n", user.Name)
			}
			if user.Email != "" {
				fmt.Printf("  email: %s\n", user.Email)
			}
			if user.StudentNumber != "" {
				fmt.Printf("  student number: %s\n", user.StudentNumber)
			}
			if user.Department != "" {
				fmt.Printf("  department: %s\n", user.Department)
			}
			return nil
		},
	}
}

func profileUpdateCommand() *cli.Command {
	var common cli.CommonFlags
	var update portal.ProfileUpdate

	return &cli.Command{
		Name:    "update",
		Summary: "Update profile fields",
		Usage:   "pfetrack profile update [--name <name>] [--email <email>]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("update", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&update.Name, "name", "", "new full name")
			flags.StringVar(&update.Email, "email", "", "new email address")
			return flags
		},
		Run: func(args []string) error {
			if update.Name == "" && update.Email == "" {
				return fmt.Errorf("nothing to update: pass --name or --email")
			}

			app, ctx, cancel, err := protectedApp(common, "profile/update")
			if err != nil {
				return err
			}
			defer cancel()

			user, err := app.Session.Profile.Update(ctx, update)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Profile updated for %s\n", user.Username)
			return nil
		},
	}
}
