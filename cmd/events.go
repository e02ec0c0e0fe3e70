package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tally"
	"github.com/etnz/tally/renderer"
	"github.com/google/subcommands"
)

type eventsCmd struct {
	output
	kind  string
	attrs string
}

func (*eventsCmd) Name() string     { return "events" }
func (*eventsCmd) Synopsis() string { return "display the events that changed an entity" }
func (*eventsCmd) Usage() string {
	return `tly events [-k <kind>] [-a <attributes>] <id>

  Displays the chronological list of the events that changed an entity,
  with the change of each requested attribute.
`
}

func (c *eventsCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.kind, "k", "portfolio", "The kind of the entity (payee, security, portfolio, taxbasis, tag).")
	f.StringVar(&c.attrs, "a", "income,expense,valuation", "Comma separated attributes to display.")
}

func (c *eventsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(f.Output(), "events requires exactly one entity id")
		return subcommands.ExitUsageError
	}
	kind, err := tally.ParseEntityKind(c.kind)
	if err != nil {
		return fail(err)
	}
	var attrs []tally.Attr
	for _, name := range splitList(c.attrs) {
		a, err := tally.ParseAttr(name)
		if err != nil {
			return fail(err)
		}
		attrs = append(attrs, a)
	}

	book, _, err := OpenBook()
	if err != nil {
		return fail(err)
	}
	id := f.Arg(0)
	b, ok := book.List(kind).Lookup(id)
	if !ok {
		return fail(fmt.Errorf("%s %q has no activity", kind, id))
	}
	return c.print(stdout, renderer.RenderEvents(b, attrs), b)
}
