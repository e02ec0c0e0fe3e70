package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/google/subcommands"
)

type totalsCmd struct {
	output
	start string
	date  string
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "display the totals of every kind of entity" }
func (*totalsCmd) Usage() string {
	return `tly totals [-s <start_date>] [-d <date>] [-html | -q <jsonpath>]

  Displays one line per kind of entity with its totals: as of the date, or
  over the range when a start date is given.
`
}

func (c *totalsCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.start, "s", "", "The start date of a range, the totals are then movements.")
	f.StringVar(&c.date, "d", "", "The date of the report (defaults to the last event of the ledger).")
}

func (c *totalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, _, err := OpenBook()
	if err != nil {
		return fail(err)
	}
	end := book.End()
	if c.date != "" {
		if end, err = date.Parse(c.date); err != nil {
			return fail(err)
		}
	}
	var view *tally.View
	if c.start != "" {
		start, err := date.Parse(c.start)
		if err != nil {
			return fail(err)
		}
		view, err = book.Over(date.NewRange(start, end))
		if err != nil {
			return fail(err)
		}
	} else if view, err = book.AsOf(end); err != nil {
		return fail(err)
	}

	totals := make(map[string]*tally.Bucket)
	var b strings.Builder
	fmt.Fprintf(&b, "# Totals\n\n")
	fmt.Fprintln(&b, "| Kind | Count | Income | Expense | Valuation | Change |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, k := range []tally.EntityKind{tally.Portfolios, tally.Securities, tally.Payees, tally.TaxBases, tally.Tags} {
		l := view.List(k)
		t := l.Totals()
		totals[k.String()] = t
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
			k,
			l.Len(),
			t.Money(tally.AttrIncome),
			t.Money(tally.AttrExpense),
			t.Valuation(),
			t.Delta().SignedString(),
		)
	}
	return c.print(stdout, b.String(), totals)
}
