package tally

import (
	"testing"

	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to parse a date.
func day(s string) date.Date { return date.MustParse(s) }

// dec is a helper for test to parse a decimal.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// sampleLedger is a EUR bank account, and a USD broker holding AAPL.
//
//	2025-01-01 USD = 0.9 EUR, opening of 1000 EUR on the bank
//	2025-01-05 salary of 2000 from acme, tagged work
//	2025-01-10 groceries of 100
//	2025-01-15 transfer of 900 EUR to the broker (1000 USD)
//	2025-01-20 AAPL at 100 USD, buy 5 AAPL for 500 USD
//	2025-02-01 AAPL at 120 USD, USD = 1 EUR
func sampleLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	l.SetStart(day("2025-01-01"))
	for _, e := range []Entity{
		NewPortfolio("bank", "Bank", "EUR"),
		NewPortfolio("broker", "Broker", "USD"),
		NewSecurity("AAPL", "Apple", "USD", "broker"),
		NewPayee("acme", "Acme Corp"),
		NewTaxBasis("salary", "Salaries", 1),
	} {
		if err := l.Declare(e); err != nil {
			t.Fatalf("Declare(%s) error = %v", e.ID(), err)
		}
	}
	l.AddOpening(Opening{Portfolio: "bank", Amount: EUR(1000)})
	l.AddRate(RatePoint{Date: day("2025-01-01"), Currency: "USD", Rate: dec("0.9")})
	l.AddRate(RatePoint{Date: day("2025-02-01"), Currency: "USD", Rate: dec("1")})
	l.AddPrice(PricePoint{Date: day("2025-01-20"), Security: "AAPL", Price: dec("100")})
	l.AddPrice(PricePoint{Date: day("2025-02-01"), Security: "AAPL", Price: dec("120")})
	l.AddTransaction(Transaction{ID: "t1", Date: day("2025-01-05"), Kind: TxIncome, Portfolio: "bank", Payee: "acme", Category: "salary", Tags: []string{"work"}, Amount: EUR(2000)})
	l.AddTransaction(Transaction{ID: "t2", Date: day("2025-01-10"), Kind: TxExpense, Portfolio: "bank", Payee: "grocer", Category: "food", Amount: EUR(100)})
	l.AddTransaction(Transaction{ID: "t3", Date: day("2025-01-15"), Kind: TxTransfer, Portfolio: "bank", Counter: "broker", Amount: EUR(900)})
	l.AddTransaction(Transaction{ID: "t4", Date: day("2025-01-20"), Kind: TxBuy, Portfolio: "broker", Security: "AAPL", Units: Q(5), Amount: USD(500)})
	return l
}

var sampleRules = TaxRules{"salary": {Basis: "salary", Income: true}}

// build replays l in EUR.
func build(t *testing.T, l *Ledger) *Book {
	t.Helper()
	b, err := Build(l.Sources(), l, Options{Currency: "EUR", Classifier: sampleRules})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return b
}

// assertValue checks the current value of a in b.
func assertValue(t *testing.T, b *Bucket, a Attr, want string) {
	t.Helper()
	if got := b.Values().Get(a); !got.Equal(dec(want)) {
		t.Errorf("%s %s = %s, want %s", b.Name(), a, got, want)
	}
}

// lookup returns the bucket of id in l or fails.
func lookup(t *testing.T, l *BucketList, id string) *Bucket {
	t.Helper()
	b, ok := l.Lookup(id)
	if !ok {
		t.Fatalf("%s %q is missing", l.Kind(), id)
	}
	return b
}
