// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/pfetrack/pfetrack/cmd/pfetrack/cli"
	"github.com/pfetrack/pfetrack/portal"
)

// TopicsCommand returns the "topics" command group.
func TopicsCommand() *cli.Command {
	return &cli.Command{
		Name:    "topics",
		Summary: "Browse and apply to project topics",
		Subcommands: []*cli.Command{
			topicsListCommand(),
			topicsShowCommand(),
			topicsApplyCommand(),
			topicsApplicationsCommand(),
			topicsCreateCommand(),
			topicsDeleteCommand(),
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}

// protectedApp builds the App and fails early when no user is logged
// in. Shared by every command that hits an authenticated endpoint.
func protectedApp(common cli.CommonFlags, command string) (*cli.App, context.Context, context.CancelFunc, error) {
	logger := cli.NewCommandLogger().With("command", command)
	app, err := cli.NewApp(common, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := app.RequireLogin(); err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.RequestTimeout.Std())
	return app, ctx, cancel, nil
}

func topicsListCommand() *cli.Command {
	var common cli.CommonFlags
	var filter portal.TopicFilter
	var availableOnly, asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List topics",
		Examples: []cli.Example{
			{Description: "Topics still open for applications", Command: "pfetrack topics list --available"},
			{Description: "Search by keyword", Command: "pfetrack topics list --search 'machine learning'"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&filter.Status, "status", "", "filter by status (open, assigned, closed)")
			flags.StringVar(&filter.Supervisor, "supervisor", "", "filter by supervisor")
			flags.StringVar(&filter.Semester, "semester", "", "filter by semester")
			flags.StringVar(&filter.Search, "search", "", "search title and description")
			flags.BoolVar(&availableOnly, "available", false, "only topics open for applications")
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "topics/list")
			if err != nil {
				return err
			}
			defer cancel()

			var topics []portal.Topic
			if availableOnly {
				topics, err = app.Session.Topics.Available(ctx)
			} else {
				topics, err = app.Session.Topics.List(ctx, filter)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(topics)
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tSUPERVISOR\tTITLE")
			for _, topic := range topics {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", topic.ID, topic.Status, topic.Supervisor, topic.Title)
			}
			return tw.Flush()
		},
	}
}

func topicsShowCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "show",
		Summary: "Show one topic",
		Usage:   "pfetrack topics show <id>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("show", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack topics show <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, ctx, cancel, err := protectedApp(common, "topics/show")
			if err != nil {
				return err
			}
			defer cancel()

			topic, err := app.Session.Topics.Get(ctx, id)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(topic)
			}
			fmt.Printf("%s (#%d)\n", topic.Title, topic.ID)
			fmt.Printf("  status:     %s\n", topic.Status)
			fmt.Printf("  supervisor: %s\n", topic.Supervisor)
			if topic.Semester != "" {
				fmt.Printf("  semester:   %s\n", topic.Semester)
			}
			if topic.Description != "" {
				fmt.Printf("\n%s\n", topic.Description)
			}
			return nil
		},
	}
}

func topicsApplyCommand() *cli.Command {
	var common cli.CommonFlags
	var motivation string

	return &cli.Command{
		Name:    "apply",
		Summary: "Apply to a topic",
		Usage:   "pfetrack topics apply <id> --motivation <text>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("apply", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&motivation, "motivation", "", "motivation text sent with the application")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack topics apply <id> --motivation <text>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if motivation == "" {
				return fmt.Errorf("--motivation is required")
			}

			app, ctx, cancel, err := protectedApp(common, "topics/apply")
			if err != nil {
				return err
			}
			defer cancel()

			application, err := app.Session.Topics.Apply(ctx, id, motivation)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Application #%d submitted (%s)\n", application.ID, application.Status)
			return nil
		},
	}
}

func topicsApplicationsCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "applications",
		Summary: "List your applications",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("applications", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "topics/applications")
			if err != nil {
				return err
			}
			defer cancel()

			applications, err := app.Session.Topics.MyApplications(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(applications)
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tTOPIC")
			for _, application := range applications {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", application.ID, application.Status, application.TopicTitle)
			}
			return tw.Flush()
		},
	}
}

func topicsCreateCommand() *cli.Command {
	var common cli.CommonFlags
	var topic portal.Topic

	return &cli.Command{
		Name:    "create",
		Summary: "Publish a topic (supervisors)",
		Usage:   "pfetrack topics create --title <title> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&topic.Title, "title", "", "topic title")
			flags.StringVar(&topic.Description, "description", "", "topic description")
			flags.StringVar(&topic.Semester, "semester", "", "target semester")
			return flags
		},
		Run: func(args []string) error {
			if topic.Title == "" {
				return fmt.Errorf("--title is required")
			}

			app, ctx, cancel, err := protectedApp(common, "topics/create")
			if err != nil {
				return err
			}
			defer cancel()

			created, err := app.Session.Topics.Create(ctx, topic)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Topic #%d created\n", created.ID)
			return nil
		},
	}
}

func topicsDeleteCommand() *cli.Command {
	var common cli.CommonFlags

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a topic (supervisors)",
		Usage:   "pfetrack topics delete <id>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("delete", pflag.ContinueOnError)
			common.Register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack topics delete <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, ctx, cancel, err := protectedApp(common, "topics/delete")
			if err != nil {
				return err
			}
			defer cancel()

			if err := app.Session.Topics.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Topic #%d deleted\n", id)
			return nil
		},
	}
}
