package tally

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// step is the summary of an Event used to compare cursor outputs.
type step struct {
	Kind    EventKind
	Date    string
	Records int
}

func drain(c *Cursor) []step {
	var steps []step
	for e := c.NextEvent(); e != nil; e = c.NextEvent() {
		steps = append(steps, step{e.Kind, e.Date.String(), e.Len()})
	}
	return steps
}

func TestCursorMergeOrder(t *testing.T) {
	src := Sources{
		Start: day("2025-01-01"),
		// descending
		Prices: []PricePoint{
			{Date: day("2025-01-03"), Security: "A", Price: dec("2")},
			{Date: day("2025-01-01"), Security: "B", Price: dec("1")},
			{Date: day("2025-01-01"), Security: "A", Price: dec("1")},
		},
		Rates: []RatePoint{
			{Date: day("2025-01-02"), Currency: "USD", Rate: dec("0.9")},
			{Date: day("2025-01-01"), Currency: "USD", Rate: dec("0.8")},
		},
		// ascending
		DepositRates: []DepositRate{
			{Date: day("2025-01-03"), Portfolio: "bank", Rate: dec("2")},
		},
		Openings: []Opening{{Portfolio: "bank", Amount: EUR(100)}},
		Transactions: []Transaction{
			{ID: "1", Date: day("2025-01-01"), Kind: TxIncome},
			{ID: "2", Date: day("2025-01-03"), Kind: TxIncome},
			{ID: "3", Date: day("2025-01-03"), Kind: TxExpense},
		},
	}

	got := drain(NewCursor(src, nil))
	want := []step{
		{EventSecurityPrice, "2025-01-01", 2},
		{EventExchangeRate, "2025-01-01", 1},
		{EventOpeningBalance, "2025-01-01", 1},
		{EventTransaction, "2025-01-01", 1},
		{EventExchangeRate, "2025-01-02", 1},
		{EventSecurityPrice, "2025-01-03", 1},
		{EventDepositRate, "2025-01-03", 1},
		{EventTransaction, "2025-01-03", 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NextEvent() sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestCursorOpeningBalanceWithoutRecords(t *testing.T) {
	// The opening event is emitted even without any opening balance, so
	// that the ledger start is always a point in the timeline.
	got := drain(NewCursor(Sources{Start: day("2025-01-01")}, nil))
	want := []step{{EventOpeningBalance, "2025-01-01", 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NextEvent() sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestCursorEventIDs(t *testing.T) {
	src := Sources{
		Start: day("2025-01-01"),
		Transactions: []Transaction{
			{ID: "1", Date: day("2025-01-02")},
			{ID: "2", Date: day("2025-01-03")},
		},
	}
	c := NewCursor(src, nil)
	var ids []int
	for e := c.NextEvent(); e != nil; e = c.NextEvent() {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ids); diff != "" {
		t.Errorf("event ids mismatch (-want +got):\n%s", diff)
	}
}

func TestCursorNextEventType(t *testing.T) {
	src := Sources{
		Start:  day("2025-01-05"),
		Prices: []PricePoint{{Date: day("2025-01-05"), Security: "A", Price: dec("3")}},
	}
	c := NewCursor(src, nil)
	kind, ok := c.NextEventType()
	if !ok || kind != EventSecurityPrice {
		t.Fatalf("NextEventType() = %v, %v, want %v, true", kind, ok, EventSecurityPrice)
	}
	// peeking does not consume
	if e := c.NextEvent(); e.Kind != EventSecurityPrice {
		t.Errorf("NextEvent().Kind = %v, want %v", e.Kind, EventSecurityPrice)
	}
	c.NextEvent() // opening
	if _, ok := c.NextEventType(); ok {
		t.Error("NextEventType() on an exhausted cursor reports an event")
	}
	if e := c.NextEvent(); e != nil {
		t.Errorf("NextEvent() on an exhausted cursor = %v, want nil", e)
	}
}

func TestCursorUpdatesContext(t *testing.T) {
	src := Sources{
		Start: day("2025-01-01"),
		Prices: []PricePoint{
			{Date: day("2025-01-02"), Security: "A", Price: dec("12")},
			{Date: day("2025-01-01"), Security: "A", Price: dec("10")},
		},
		Rates: []RatePoint{{Date: day("2025-01-02"), Currency: "USD", Rate: dec("0.5")}},
	}
	ctx := NewContext("EUR")
	c := NewCursor(src, ctx)

	c.NextEvent() // prices of the 1st
	if got := ctx.CurrentPrice("A"); !got.Equal(dec("10")) {
		t.Errorf("CurrentPrice(A) = %s, want 10", got)
	}
	if got := ctx.CurrentExchangeRate("USD"); !got.Equal(dec("1")) {
		t.Errorf("CurrentExchangeRate(USD) before any rate = %s, want 1", got)
	}
	drain(c)
	if got := ctx.CurrentPrice("A"); !got.Equal(dec("12")) {
		t.Errorf("CurrentPrice(A) = %s, want 12", got)
	}
	if got := ctx.CurrentExchangeRate("USD"); !got.Equal(dec("0.5")) {
		t.Errorf("CurrentExchangeRate(USD) = %s, want 0.5", got)
	}
}
