// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/pfetrack/pfetrack/cmd/pfetrack/cli"
	"github.com/pfetrack/pfetrack/lib/filehash"
	"github.com/pfetrack/pfetrack/portal"
)

// ReportsCommand returns the "reports" command group.
func ReportsCommand() *cli.Command {
	return &cli.Command{
		Name:    "reports",
		Summary: "Manage progress and final reports",
		Subcommands: []*cli.Command{
			reportsListCommand(),
			reportsShowCommand(),
			reportsUploadCommand(),
			reportsSubmitCommand(),
			reportsDownloadCommand(),
			reportsDeleteCommand(),
		},
	}
}

func reportsListCommand() *cli.Command {
	var common cli.CommonFlags
	var filter portal.ReportFilter
	var all, asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "List reports",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&filter.Status, "status", "", "filter by status (draft, submitted, evaluated)")
			flags.StringVar(&filter.Type, "type", "", "filter by type (progress, final)")
			flags.StringVar(&filter.Semester, "semester", "", "filter by semester")
			flags.BoolVar(&all, "all", false, "list every visible report (supervisors)")
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			app, ctx, cancel, err := protectedApp(common, "reports/list")
			if err != nil {
				return err
			}
			defer cancel()

			var reports []portal.Report
			if all {
				reports, err = app.Session.Reports.All(ctx, filter)
			} else {
				reports, err = app.Session.Reports.Mine(ctx, filter)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(reports)
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tFILE\tTITLE")
			for _, report := range reports {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					report.ID, report.Type, report.Status, report.FileName, report.Title)
			}
			return tw.Flush()
		},
	}
}

func reportsShowCommand() *cli.Command {
	var common cli.CommonFlags
	var asJSON bool

	return &cli.Command{
		Name:    "show",
		Summary: "Show one report",
		Usage:   "pfetrack reports show <id>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("show", pflag.ContinueOnError)
			common.Register(flags)
			flags.BoolVar(&asJSON, "json", false, "output as JSON")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack reports show <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, ctx, cancel, err := protectedApp(common, "reports/show")
			if err != nil {
				return err
			}
			defer cancel()

			report, err := app.Session.Reports.Get(ctx, id)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(report)
			}
			fmt.Printf("%s (#%d)\n", report.Title, report.ID)
			fmt.Printf("  type:   %s\n", report.Type)
			fmt.Printf("  status: %s\n", report.Status)
			if report.FileName != "" {
				fmt.Printf("  file:   %s\n", report.FileName)
			}
			if report.Checksum != "" {
				fmt.Printf("  checksum: %s\n", report.Checksum)
			}
			if report.SubmittedAt != nil {
				fmt.Printf("  submitted: %s\n", report.SubmittedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func reportsUploadCommand() *cli.Command {
	var common cli.CommonFlags
	var title, reportType, semester string

	return &cli.Command{
		Name:    "upload",
		Summary: "Create a report from a file",
		Usage:   "pfetrack reports upload <file> --title <title> [flags]",
		Examples: []cli.Example{
			{
				Description: "Upload a final report",
				Command:     "pfetrack reports upload final.pdf --title 'Final report' --type final --semester S6",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVar(&title, "title", "", "report title")
			flags.StringVar(&reportType, "type", "progress", "report type (progress or final)")
			flags.StringVar(&semester, "semester", "", "semester")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack reports upload <file> --title <title>")
			}
			path := args[0]
			if title == "" {
				return fmt.Errorf("--title is required")
			}

			// Hash before uploading so the local digest can be checked
			// against the server's echo.
			digest, err := filehash.HashFile(path)
			if err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			app, ctx, cancel, err := protectedApp(common, "reports/upload")
			if err != nil {
				return err
			}
			defer cancel()

			report, err := app.Session.Reports.Upload(ctx, portal.ReportUpload{
				Title:    title,
				Type:     reportType,
				Semester: semester,
				FileName: filepath.Base(path),
				Content:  file,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Report #%d created from %s\n", report.ID, path)
			fmt.Fprintf(os.Stderr, "  local checksum: %s\n", filehash.Format(digest))
			if report.Checksum != "" && report.Checksum != filehash.Format(digest) {
				fmt.Fprintf(os.Stderr, "  WARNING: server checksum %s does not match\n", report.Checksum)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func reportsSubmitCommand() *cli.Command {
	var common cli.CommonFlags

	return &cli.Command{
		Name:    "submit",
		Summary: "Submit a report for evaluation",
		Usage:   "pfetrack reports submit <id>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("submit", pflag.ContinueOnError)
			common.Register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack reports submit <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, ctx, cancel, err := protectedApp(common, "reports/submit")
			if err != nil {
				return err
			}
			defer cancel()

			report, err := app.Session.Reports.Submit(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Report #%d submitted (%s)\n", report.ID, report.Status)
			return nil
		},
	}
}

func reportsDownloadCommand() *cli.Command {
	var common cli.CommonFlags
	var output string

	return &cli.Command{
		Name:    "download",
		Summary: "Download a report's file",
		Usage:   "pfetrack reports download <id> [--output <path>]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("download", pflag.ContinueOnError)
			common.Register(flags)
			flags.StringVarP(&output, "output", "o", "", "destination path (default: server file name)")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack reports download <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, ctx, cancel, err := protectedApp(common, "reports/download")
			if err != nil {
				return err
			}
			defer cancel()

			if output == "" {
				report, err := app.Session.Reports.Get(ctx, id)
				if err != nil {
					return err
				}
				if report.FileName == "" {
					return fmt.Errorf("report #%d has no file", id)
				}
				output = report.FileName
			}

			file, err := os.Create(output)
			if err != nil {
				return err
			}

			written, err := app.Session.Reports.Download(ctx, id, file)
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(output)
				return err
			}

			digest, err := filehash.HashFile(output)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", output, written)
			fmt.Fprintf(os.Stderr, "  checksum: %s\n", filehash.Format(digest))
			return nil
		},
	}
}

func reportsDeleteCommand() *cli.Command {
	var common cli.CommonFlags

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a report",
		Usage:   "pfetrack reports delete <id>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("delete", pflag.ContinueOnError)
			common.Register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: pfetrack reports delete <id>")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app, ctx, cancel, err := protectedApp(common, "reports/delete")
			if err != nil {
				return err
			}
			defer cancel()

			if err := app.Session.Reports.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Report #%d deleted\n", id)
			return nil
		},
	}
}
