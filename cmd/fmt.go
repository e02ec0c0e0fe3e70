package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "validate and rewrite the ledger in its canonical form" }
func (*fmtCmd) Usage() string {
	return `tly fmt [-check]

  Validates the ledger, and rewrites it: the start date, then the entities
  by kind, then the dated records in chronological order.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Only validate the ledger, do not rewrite it.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	if err := ledger.Validate(); err != nil {
		return fail(fmt.Errorf("invalid ledger %q: %w", ledger.Name(), err))
	}
	if c.check {
		return subcommands.ExitSuccess
	}
	if err := tally.SaveLedger(cfg.LedgerFile, ledger); err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Successfully formatted %s\n", cfg.LedgerFile)
	return subcommands.ExitSuccess
}
