// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "pfetrack",
		Subcommands: []*Command{
			{
				Name: "topics",
				Subcommands: []*Command{
					{
						Name: "list",
						Run: func(args []string) error {
							ran = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"topics", "list", "extra"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(ran) != 1 || ran[0] != "extra" {
		t.Errorf("subcommand args = %v", ran)
	}
}

func TestExecuteUnknownSubcommand(t *testing.T) {
	root := &Command{
		Name:        "pfetrack",
		Subcommands: []*Command{{Name: "topics", Run: func([]string) error { return nil }}},
	}

	err := root.Execute([]string{"topcs"})
	if err == nil {
		t.Fatal("unknown subcommand accepted")
	}
	if !strings.Contains(err.Error(), `unknown command "topcs"`) {
		t.Errorf("error = %v", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var semester string
	var positional []string
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVar(&semester, "semester", "", "")
			return flags
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"--semester", "S5", "arg"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if semester != "S5" {
		t.Errorf("semester = %q", semester)
	}
	if len(positional) != 1 || positional[0] != "arg" {
		t.Errorf("positional = %v", positional)
	}
}

func TestExecuteUnknownFlag(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("list", pflag.ContinueOnError)
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--nonsense"})
	if err == nil {
		t.Fatal("unknown flag accepted")
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error does not point at --help: %v", err)
	}
}

func TestExecuteSubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "pfetrack",
		Subcommands: []*Command{{Name: "topics"}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("missing subcommand accepted")
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	root := &Command{
		Name: "pfetrack",
		Subcommands: []*Command{
			{Name: "topics", Summary: "Browse topics"},
			{Name: "grades", Summary: "Consult grades"},
		},
	}

	var output strings.Builder
	root.PrintHelp(&output)
	help := output.String()
	for _, want := range []string{"topics", "Browse topics", "grades", "Consult grades"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}
