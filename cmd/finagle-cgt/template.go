package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tregeagle/finagle/internal/importer"
)

type templateCmd struct{}

func (*templateCmd) Name() string     { return "template" }
func (*templateCmd) Synopsis() string { return "print the native CSV import template" }
func (*templateCmd) Usage() string {
	return `finagle-cgt template > trades.csv
`
}

func (*templateCmd) SetFlags(*flag.FlagSet) {}

func (*templateCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	body, err := importer.Template()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, err := os.Stdout.Write(body); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
