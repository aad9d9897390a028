// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pfetrack/pfetrack/cmd/pfetrack/cli"
	"github.com/pfetrack/pfetrack/portal"
)

// LoginCommand returns the "login" command. It authenticates against
// the portal and saves the session to the well-known path; subsequent
// commands load it transparently until logout or token expiry.
func LoginCommand() *cli.Command {
	var common cli.CommonFlags
	var passwordFile string

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate and save the session",
		Description: `Log in to the portal and save the session locally.

The session file is stored under the user config directory (or
$PFETRACK_SESSION_FILE if set) with mode 0600, since it contains an
access token. The password is prompted interactively, or read from
--password-file ("-" reads stdin).`,
		Usage: "pfetrack login <username> [flags]",
		Examples: []cli.Example{
			{Description: "Log in interactively", Command: "pfetrack login amina"},
			{Description: "Log in with password from a file", Command: "pfetrack login amina --password-file ~/.pfetrack-pass"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&passwordFile, "password-file", "", "path to file containing the password, or - for stdin (default: prompt)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack login <username>")
			}
			username := args[0]

			logger := cli.NewCommandLogger().With("command", "login")
			app, err := cli.NewApp(common, logger)
			if err != nil {
				return err
			}

			password, err := cli.ReadPassword(passwordFile, "Password")
			if err != nil {
				return err
			}
			defer password.Close()

			ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout.Std())
			defer cancel()

			result := app.Manager.Login(ctx, username, password)
			if !result.Success {
				fmt.Fprintln(os.Stderr, result.Message)
				return &cli.ExitError{Code: 1}
			}

			identity := app.Manager.Identity()
			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", identity.Username, identity.Role)
			return nil
		},
	}
}

// LogoutCommand returns the "logout" command.
func LogoutCommand() *cli.Command {
	var common cli.CommonFlags

	return &cli.Command{
		Name:    "logout",
		Summary: "Discard the saved session",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			common.Register(flags)
			return flags
		},
		Run: func(args []string) error {
			logger := cli.NewCommandLogger().With("command", "logout")
			app, err := cli.NewApp(common, logger)
			if err != nil {
				return err
			}
			app.Manager.Logout()
			fmt.Fprintln(os.Stderr, "Logged out.")
			return nil
		},
	}
}

// RegisterCommand returns the "register" command. Registration does
// not log in; it creates the account only.
func RegisterCommand() *cli.Command {
	var common cli.CommonFlags
	var passwordFile string
	var request portal.RegisterRequest

	return &cli.Command{
		Name:    "register",
		Summary: "Create a portal account",
		Usage:   "pfetrack register <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Register a student account",
				Command:     "pfetrack register amina --name 'Amina K.' --email amina@example.edu --role student --student-number 21045",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&passwordFile, "password-file", "", "path to file containing the password, or - for stdin (default: prompt)")
			flags.StringVar(&request.Name, "name", "", "full name")
			flags.StringVar(&request.Email, "email", "", "email address")
			flags.StringVar(&request.Role, "role", "student", "account role (student or teacher)")
			flags.StringVar(&request.StudentNumber, "student-number", "", "student number (student accounts)")
			flags.StringVar(&request.Department, "department", "", "department (teacher accounts)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack register <username>")
			}
			request.Username = args[0]

			logger := cli.NewCommandLogger().With("command", "register")
			app, err := cli.NewApp(common, logger)
			if err != nil {
				return err
			}

			password, err := cli.ReadPassword(passwordFile, "Password")
			if err != nil {
				return err
			}
			defer password.Close()
			request.Password = password.String()

			ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout.Std())
			defer cancel()

			result := app.Manager.Register(ctx, request)
			request.Password = ""
			if !result.Success {
				fmt.Fprintln(os.Stderr, result.Message)
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintln(os.Stderr, result.Message)
			return nil
		},
	}
}

// WhoamiCommand returns the "whoami" command: print the logged-in
// user, or exit 1 when nobody is.
func WhoamiCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON, verify bool

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the logged-in user",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			flags.BoolVar(&verify, "verify", false, "ask the server whether the saved token is still accepted")
			return flags
		},
		Run: func(args []string) error {
			logger := cli.NewCommandLogger().With("command", "whoami")
			app, err := cli.NewApp(common, logger)
			if err != nil {
				return err
			}

			identity := app.Manager.Identity()
			if identity == nil {
				fmt.Fprintln(os.Stderr, "Not logged in.")
				return &cli.ExitError{Code: 1}
			}

			if verify {
				ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout.Std())
				defer cancel()
				remote, err := app.Session.Profile.Get(ctx)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Saved session is no longer accepted: %v\n", err)
					return &cli.ExitError{Code: 1}
				}
				identity = remote
			}
			if asJSON {
				return cli.WriteJSON(identity)
			}
			fmt.Printf("%s (%s)\n", identity.Username, identity.Role)
			if identity.Name != "" {
				fmt.Printf("  name:  %s\n", identity.Name)
			}
			if identity.Email != "" {
				fmt.Printf("  email: %s\n", identity.Email)
			}
			if identity.StudentNumber != "" {
				fmt.Printf("  student number: %s\n", identity.StudentNumber)
			}
			if identity.Department != "" {
				fmt.Printf("  department: %s\n", identity.Department)
			}
			return nil
		},
	}
}
