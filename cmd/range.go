package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/tally/date"
	"github.com/etnz/tally/renderer"
	"github.com/google/subcommands"
)

type rangeCmd struct {
	output
	period string
	start  string
	date   string
	kinds  string
	active bool
}

func (*rangeCmd) Name() string { return "range" }
func (*rangeCmd) Synopsis() string {
	return "display the movements of every entity over a period"
}
func (*rangeCmd) Usage() string {
	return `tly range [-p <period> | -s <start_date>] [-d <end_date>] [-k <kinds>] [-html | -q <jsonpath>]

  Displays what changed during a range: income and expenses, units bought
  and sold, valuation changes and exchange rate effects. Entities without
  activity in the range are shown only if they still hold something at its
  end.
`
}

func (c *rangeCmd) SetFlags(f *flag.FlagSet) {
	c.output.SetFlags(f)
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year) containing the end date.")
	f.StringVar(&c.start, "s", "", "The start date of a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "The last day of the range (defaults to the last event of the ledger).")
	f.StringVar(&c.kinds, "k", "", "Comma separated kinds of entities to display (payee, security, portfolio, taxbasis, tag).")
	f.BoolVar(&c.active, "active", false, "Only display the securities still held at the end of the range.")
}

// rangeOf returns the range selected by the flags, end being the default
// last day.
func (c *rangeCmd) rangeOf(end date.Date) (date.Range, error) {
	if c.date != "" {
		d, err := date.Parse(c.date)
		if err != nil {
			return date.Range{}, fmt.Errorf("error parsing end date: %w", err)
		}
		end = d
	}
	if c.start != "" {
		start, err := date.Parse(c.start)
		if err != nil {
			return date.Range{}, fmt.Errorf("error parsing start date: %w", err)
		}
		return date.NewRange(start, end), nil
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return date.Range{}, fmt.Errorf("error parsing period: %w", err)
	}
	return period.Range(end), nil
}

func (c *rangeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kinds, err := parseKinds(c.kinds)
	if err != nil {
		return fail(err)
	}
	book, _, err := OpenBook()
	if err != nil {
		return fail(err)
	}
	r, err := c.rangeOf(book.End())
	if err != nil {
		return fail(err)
	}
	view, err := book.Over(r)
	if err != nil {
		return fail(err)
	}
	if c.active {
		view.Securities().PruneInactive()
	}
	md := renderer.RenderView(view, renderer.Options{Kinds: kinds, SkipEmpty: true})
	return c.print(stdout, md, view)
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
