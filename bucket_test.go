package tally

import (
	"testing"
)

func TestForeignSecurityValuation(t *testing.T) {
	// 10 units at 5.00 USD, with 1 USD = 2.0 EUR.
	l := NewLedger()
	l.Declare(NewPortfolio("broker", "Broker", "USD"))
	l.Declare(NewSecurity("S", "S", "USD", "broker"))
	on := day("2025-03-03")
	l.SetStart(on)
	l.AddOpening(Opening{Portfolio: "broker", Amount: USD(50)})
	l.AddRate(RatePoint{Date: on, Currency: "USD", Rate: dec("2.0")})
	l.AddPrice(PricePoint{Date: on, Security: "S", Price: dec("5.00")})
	l.AddTransaction(Transaction{ID: "buy", Date: on, Kind: TxBuy, Portfolio: "broker", Security: "S", Units: Q(10), Amount: USD(50)})

	book := build(t, l)
	s := lookup(t, book.List(Securities), "S")
	assertValue(t, s, AttrUnits, "10")
	assertValue(t, s, AttrPrice, "5")
	assertValue(t, s, AttrExchangeRate, "2")
	assertValue(t, s, AttrLocalValue, "50")
	assertValue(t, s, AttrValuation, "100")
	assertValue(t, s, AttrInvested, "100")

	if got, want := s.Money(AttrLocalValue).Currency(), "USD"; got != want {
		t.Errorf("local value currency = %s, want %s", got, want)
	}
	if got, want := s.Valuation().Currency(), "EUR"; got != want {
		t.Errorf("valuation currency = %s, want %s", got, want)
	}

	p := lookup(t, book.List(Portfolios), "broker")
	assertValue(t, p, AttrLocalValue, "0")
	assertValue(t, p, AttrHoldings, "100")
	assertValue(t, p, AttrValuation, "100")
}

func TestBucketFXRevaluation(t *testing.T) {
	book := build(t, sampleLedger(t))

	// AAPL: 5 units, 100 then 120 USD, USD from 0.9 to 1 EUR.
	s := lookup(t, book.List(Securities), "AAPL")
	assertValue(t, s, AttrLocalValue, "600")
	assertValue(t, s, AttrValuation, "600")
	assertValue(t, s, AttrFXRevaluation, "60")
	assertValue(t, s, AttrInvested, "450")
	if got := s.UnrealisedGains(); !got.Decimal().Equal(dec("150")) {
		t.Errorf("UnrealisedGains() = %v, want 150", got)
	}

	// broker: 500 USD of cash and AAPL. The rate move adds 50 on the cash
	// and 60 on AAPL.
	p := lookup(t, book.List(Portfolios), "broker")
	assertValue(t, p, AttrLocalValue, "500")
	assertValue(t, p, AttrHoldings, "600")
	assertValue(t, p, AttrValuation, "1100")
	assertValue(t, p, AttrFXRevaluation, "110")
	assertValue(t, p, AttrExchangeRate, "1")
}

func TestBucketHistoryPerEvent(t *testing.T) {
	book := build(t, sampleLedger(t))
	bank := lookup(t, book.List(Portfolios), "bank")

	var incomes []string
	for e, v := range bank.Events() {
		if e.Kind != EventTransaction {
			continue
		}
		d, ok := bank.DeltaForEvent(e, AttrLocalValue)
		if !ok {
			t.Fatalf("DeltaForEvent(%v) not found", e)
		}
		incomes = append(incomes, d.String())
		if got := v.Date(AttrLastActivity); got != e.Date {
			t.Errorf("lastActivity after %v = %s, want %s", e, got, e.Date)
		}
	}
	want := []string{"2000", "-100", "-900"}
	if len(incomes) != len(want) {
		t.Fatalf("cash moves = %v, want %v", incomes, want)
	}
	for i := range want {
		if incomes[i] != want[i] {
			t.Errorf("cash move %d = %s, want %s", i, incomes[i], want[i])
		}
	}
}

func TestBucketMarshalJSON(t *testing.T) {
	book := build(t, sampleLedger(t))
	acme := lookup(t, book.List(Payees), "acme")
	got, err := acme.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"id":"acme","name":"Acme Corp","currency":"EUR","values":{"income":2000,"lastActivity":"2025-01-05"},"delta":0}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}
