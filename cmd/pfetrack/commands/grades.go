// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/pfetrack/pfetrack/cmd/pfetrack/cli"
)

// GradesCommand returns the "grades" command group.
func GradesCommand() *cli.Command {
	return &cli.Command{
		Name:    "grades",
		Summary: "Consult grades and evaluations",
		Subcommands: []*cli.Command{
			gradesListCommand(),
			gradesStatsCommand(),
			gradesTranscriptCommand(),
			gradesUpcomingCommand(),
		},
	}
}

func gradesListCommand() *cli.Command {
	var common cli.CommonFlags
	var semester string
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List grades",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&semester, "semester", "", "restrict to one semester")
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "grades/list")
			if err != nil {
				return err
			}
			defer cancel()

			grades, err := app.Session.Grades.List(ctx, semester)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(grades)
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "SEMESTER\tCOURSE\tGRADE\tCOEFF")
			for _, grade := range grades {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.1f\n",
					grade.Semester, grade.Course, grade.Value, grade.Coefficient)
			}
			return tw.Flush()
		},
	}
}

func gradesStatsCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "stats",
		Summary: "Show grade statistics",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("stats", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "grades/stats")
			if err != nil {
				return err
			}
			defer cancel()

			stats, err := app.Session.Grades.Stats(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(stats)
			}
			fmt.Printf("average: %.2f over %d grades (best %.2f, worst %.2f)\n",
				stats.Average, stats.Count, stats.Best, stats.Worst)
			return nil
		},
	}
}

func gradesTranscriptCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "transcript",
		Summary: "Show the full academic record",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("transcript", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "grades/transcript")
			if err != nil {
				return err
			}
			defer cancel()

			transcript, err := app.Session.Grades.Transcript(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(transcript)
			}
			fmt.Printf("Transcript for %s\n\n", transcript.Student.Name)
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "SEMESTER\tCOURSE\tGRADE")
			for _, grade := range transcript.Grades {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\n", grade.Semester, grade.Course, grade.Value)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Printf("\noverall average: %.2f\n", transcript.Average)
			return nil
		},
	}
}

func gradesUpcomingCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "upcoming",
		Summary: "List upcoming evaluations",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("upcoming", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "grades/upcoming")
			if err != nil {
				return err
			}
			defer cancel()

			evaluations, err := app.Session.Grades.UpcomingEvaluations(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(evaluations)
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tKIND\tCOURSE")
			for _, evaluation := range evaluations {
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					evaluation.ScheduledAt.Format("2006-01-02 15:04"), evaluation.Kind, evaluation.Course)
			}
			return tw.Flush()
		},
	}
}
