// Command finagle-cgt computes a CGT report from a broker export file
// without a server or database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&reportCmd{}, "")
	commander.Register(&templateCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
