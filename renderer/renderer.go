package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tally"
)

// Options configures the rendering of a view.
type Options struct {
	Kinds     []tally.EntityKind // kinds to render, all when empty
	SkipEmpty bool               // do not render the tables without any bucket
}

// RenderView renders the lists of v to a markdown string, one table per kind
// of entity.
func RenderView(v *tally.View, opts Options) string {
	var b strings.Builder
	if v.IsRanged() {
		fmt.Fprintf(&b, "# From %s to %s\n\n", v.Start(), v.End().Add(-1))
	} else {
		fmt.Fprintf(&b, "# As of %s\n\n", v.End())
	}
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []tally.EntityKind{tally.Portfolios, tally.Securities, tally.Payees, tally.TaxBases, tally.Tags}
	}
	for _, k := range kinds {
		l := v.List(k)
		ConditionalBlock(&b, func(w io.Writer) bool {
			RenderList(w, l, v.IsRanged(), 2)
			return l.Len() > 0 || !opts.SkipEmpty
		})
	}
	return b.String()
}

// RenderList writes the table of the buckets of l, and its totals row, with
// a title of the given markdown level.
func RenderList(w io.Writer, l *tally.BucketList, ranged bool, level int) {
	fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), sectionTitles[l.Kind()])
	if l.Len() == 0 {
		fmt.Fprintf(w, "No activity.\n\n")
		return
	}
	cols := columnsFor(l.Kind())

	titles := []string{"Name"}
	aligns := []string{":---"}
	for _, c := range cols {
		titles = append(titles, c.title)
		aligns = append(aligns, c.align)
	}
	row(w, titles...)
	row(w, aligns...)

	cells := func(b *tally.Bucket, name string) []string {
		out := []string{name}
		for _, c := range cols {
			if b.IsTotals() && c.title == "Units" {
				out = append(out, "")
				continue
			}
			out = append(out, c.cell(b, ranged))
		}
		return out
	}
	for b := range l.All() {
		row(w, cells(b, b.Name())...)
	}
	row(w, cells(l.Totals(), "**Total**")...)
	fmt.Fprintln(w)
}

// RenderEvents renders the events of a bucket: the date and kind of each
// event, and the change it caused to the given attributes.
func RenderEvents(b *tally.Bucket, attrs []tally.Attr) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Name())

	titles := []string{"Date", "Event"}
	aligns := []string{":---", ":---"}
	for _, a := range attrs {
		titles = append(titles, a.String())
		aligns = append(aligns, "---:")
	}
	row(&sb, titles...)
	row(&sb, aligns...)

	for e := range b.Events() {
		cells := []string{e.Date.String(), describe(e)}
		for _, a := range attrs {
			d, _ := b.DeltaForEvent(e, a)
			if d.IsZero() {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, d.StringFixed(2))
		}
		row(&sb, cells...)
	}
	return sb.String()
}

// describe summarizes the records carried by an event.
func describe(e *tally.Event) string {
	switch e.Kind {
	case tally.EventTransaction:
		parts := make([]string, 0, len(e.Transactions))
		for _, tx := range e.Transactions {
			parts = append(parts, tx.Kind.String()+" "+tx.Amount.String())
		}
		return strings.Join(parts, ", ")
	case tally.EventOpeningBalance:
		return "opening"
	default:
		return fmt.Sprintf("%s (%d)", e.Kind, e.Len())
	}
}
