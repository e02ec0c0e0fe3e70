package renderer

import (
	"io"
	"strings"
	"testing"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
)

const ledger = `
{"type":"start","date":"2025-01-01"}
{"type":"portfolio","id":"bank","name":"Bank","currency":"EUR"}
{"type":"portfolio","id":"pea","name":"PEA","currency":"EUR"}
{"type":"security","id":"X","name":"Xylo","currency":"EUR","portfolio":"pea"}
{"type":"opening","portfolio":"bank","amount":1000}
{"type":"deposit-rate","date":"2025-01-01","portfolio":"bank","rate":3}
{"type":"tx","id":"1","date":"2025-01-05","kind":"income","portfolio":"bank","payee":"acme","amount":200}
{"type":"tx","id":"2","date":"2025-01-06","kind":"transfer","portfolio":"bank","counter":"pea","amount":100}
{"type":"price","date":"2025-01-07","security":"X","price":25}
{"type":"tx","id":"3","date":"2025-01-07","kind":"buy","portfolio":"pea","security":"X","units":4,"amount":100}
{"type":"price","date":"2025-01-08","security":"X","price":30}
`

func newBook(t *testing.T) *tally.Book {
	t.Helper()
	l, err := tally.DecodeLedger(strings.NewReader(ledger))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	book, err := tally.Build(l.Sources(), l, tally.Options{Currency: "EUR"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return book
}

func TestRenderView(t *testing.T) {
	book := newBook(t)
	v, err := book.AsOf(date.New(2025, 1, 8))
	if err != nil {
		t.Fatalf("AsOf() error = %v", err)
	}
	got := RenderView(v, Options{})

	for _, want := range []string{
		"# As of 2025-01-08",
		"## Portfolios",
		"| Name | Cash | Holdings | Valuation | Change | Income | Expense | FX | Deposit Rate |",
		"| Bank |",
		"3%",
		"## Securities",
		"| Xylo | 4 |",
		"| **Total** |",
		"## Tags\n\nNo activity.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderView() missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderViewRanged(t *testing.T) {
	book := newBook(t)
	v, err := book.Over(date.NewRange(date.New(2025, 1, 6), date.New(2025, 1, 31)))
	if err != nil {
		t.Fatalf("Over() error = %v", err)
	}
	got := RenderView(v, Options{Kinds: []tally.EntityKind{tally.Payees, tally.Securities}, SkipEmpty: true})

	if !strings.HasPrefix(got, "# From 2025-01-06 to 2025-01-31\n") {
		t.Errorf("RenderView() title, got:\n%s", got)
	}
	if strings.Contains(got, "## Payees") {
		t.Errorf("RenderView() rendered the idle payees:\n%s", got)
	}
	if strings.Contains(got, "## Portfolios") {
		t.Errorf("RenderView() rendered a kind that was not asked for:\n%s", got)
	}
	if !strings.Contains(got, "| Xylo |") {
		t.Errorf("RenderView() missing the security:\n%s", got)
	}
}

func TestRenderEvents(t *testing.T) {
	book := newBook(t)
	pea, ok := book.List(tally.Portfolios).Lookup("pea")
	if !ok {
		t.Fatal("portfolio pea is missing")
	}
	got := RenderEvents(pea, []tally.Attr{tally.AttrLocalValue, tally.AttrValuation})

	for _, want := range []string{
		"# PEA",
		"| Date | Event | localValue | valuation |",
		"| 2025-01-06 | transfer ",
		"| 100.00 | 100.00 |",
		"| 2025-01-08 | security-price (1) |  | 20.00 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderEvents() missing %q in:\n%s", want, got)
		}
	}
}

func TestConditionalBlock(t *testing.T) {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		io.WriteString(w, "dropped")
		return false
	})
	ConditionalBlock(&b, func(w io.Writer) bool {
		io.WriteString(w, "kept")
		return true
	})
	if got := b.String(); got != "kept" {
		t.Errorf("ConditionalBlock() = %q, want kept", got)
	}
}
