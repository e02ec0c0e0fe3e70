package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/etnz/tally/renderer"
	"github.com/google/subcommands"
)

type asOfCmd struct {
	output
	date  string
	kinds string
}

func (*asOfCmd) Name() string     { return "asof" }
func (*asOfCmd) Synopsis() string { return "display the state of every entity at a date" }
func (*asOfCmd) Usage() string {
	return `tly asof [-d <date>] [-k <kinds>] [-html | -q <jsonpath>]

  Displays the state of the portfolios, securities, payees, tax bases and
  tags at the end of the given day. Entities without any activity by then
  are not shown.
`
}

func (c *asOfCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.date, "d", "", "The date of the report (defaults to the last event of the ledger).")
	f.StringVar(&c.kinds, "k", "", "Comma separated kinds of entities to display (payee, security, portfolio, taxbasis, tag).")
}

func (c *asOfCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kinds, err := parseKinds(c.kinds)
	if err != nil {
		return fail(err)
	}
	book, _, err := OpenBook()
	if err != nil {
		return fail(err)
	}
	on := book.End()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	view, err := book.AsOf(on)
	if err != nil {
		return fail(err)
	}
	md := renderer.RenderView(view, renderer.Options{Kinds: kinds, SkipEmpty: true})
	return c.print(stdout, md, view)
}

// parseKinds parses a comma separated list of entity kinds.
func parseKinds(s string) ([]tally.EntityKind, error) {
	if s == "" {
		return nil, nil
	}
	var kinds []tally.EntityKind
	for _, name := range splitList(s) {
		k, err := tally.ParseEntityKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
