// Command tly reports on a ledger: the state of its portfolios, securities,
// payees, tax bases and tags at a date, or their movements over a period.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tally/cmd"
	"github.com/google/subcommands"
)

func main() {
	// exits when invoked by the shell for completion.
	cmd.Completion().Complete("tly")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
