package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tally"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// column is one column of a bucket table.
type column struct {
	title string
	align string // markdown alignment row cell
	cell  func(b *tally.Bucket, ranged bool) string
}

// money renders a money attribute, signed in ranged views where it is a movement.
func money(a tally.Attr) func(*tally.Bucket, bool) string {
	return func(b *tally.Bucket, ranged bool) string {
		m := b.Money(a)
		if ranged {
			return m.SignedString()
		}
		if m.IsZero() {
			return ""
		}
		return m.String()
	}
}

// closing renders a money attribute at the end of the view, even in ranged views.
func closing(a tally.Attr) func(*tally.Bucket, bool) string {
	return func(b *tally.Bucket, _ bool) string {
		cur := b.ReportingCurrency()
		if a.Local() {
			cur = b.Currency()
		}
		m := tally.M(b.Closing().Get(a), cur)
		if m.IsZero() {
			return ""
		}
		return m.String()
	}
}

func units(b *tally.Bucket, _ bool) string {
	q := tally.Q(b.Closing().Get(tally.AttrUnits))
	if q.IsZero() {
		return ""
	}
	return q.String()
}

func depositRate(b *tally.Bucket, _ bool) string {
	v := b.Closing()
	if !v.Has(tally.AttrDepositRate) {
		return ""
	}
	return v.Get(tally.AttrDepositRate).String() + "%"
}

func net(b *tally.Bucket, _ bool) string {
	return b.Money(tally.AttrIncome).Sub(b.Money(tally.AttrExpense)).SignedString()
}

func delta(b *tally.Bucket, _ bool) string { return b.Delta().SignedString() }

var flowColumns = []column{
	{"Income", "---:", money(tally.AttrIncome)},
	{"Expense", "---:", money(tally.AttrExpense)},
	{"Net", "---:", net},
}

// columnsFor returns the columns of the tables of kind.
func columnsFor(kind tally.EntityKind) []column {
	switch kind {
	case tally.Securities:
		return []column{
			{"Units", "---:", units},
			{"Price", "---:", closing(tally.AttrPrice)},
			{"Market Value", "---:", closing(tally.AttrLocalValue)},
			{"Valuation", "---:", closing(tally.AttrValuation)},
			{"Change", "---:", delta},
			{"Invested", "---:", money(tally.AttrInvested)},
			{"Realised", "---:", money(tally.AttrRealisedGains)},
			{"Income", "---:", money(tally.AttrIncome)},
			{"FX", "---:", money(tally.AttrFXRevaluation)},
		}
	case tally.Portfolios:
		return []column{
			{"Cash", "---:", closing(tally.AttrLocalValue)},
			{"Holdings", "---:", closing(tally.AttrHoldings)},
			{"Valuation", "---:", closing(tally.AttrValuation)},
			{"Change", "---:", delta},
			{"Income", "---:", money(tally.AttrIncome)},
			{"Expense", "---:", money(tally.AttrExpense)},
			{"FX", "---:", money(tally.AttrFXRevaluation)},
			{"Deposit Rate", "---:", depositRate},
		}
	default:
		return flowColumns
	}
}

// sectionTitles are the titles of the tables of each kind.
var sectionTitles = map[tally.EntityKind]string{
	tally.Payees:     "Payees",
	tally.Securities: "Securities",
	tally.Portfolios: "Portfolios",
	tally.TaxBases:   "Tax Bases",
	tally.Tags:       "Tags",
}

// row writes one markdown table row.
func row(w io.Writer, cells ...string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}
