package tally

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/etnz/tally/date"
)

// Ledger is an in-memory ledger: the entities it declares and the dated
// records it holds. It plays the part of the data layer for a Book: it is a
// Directory, and it produces the sorted Sources.
type Ledger struct {
	name     string
	start    date.Date
	entities [entityKindCount]map[string]Entity

	prices       []PricePoint
	rates        []RatePoint
	depositRates []DepositRate
	openings     []Opening
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	l := &Ledger{}
	for k := range l.entities {
		l.entities[k] = make(map[string]Entity)
	}
	return l
}

// Name returns the name of the ledger, usually its file name.
func (l *Ledger) Name() string { return l.name }

// Start returns the ledger start date. When it was not declared, it is the
// date of the earliest record.
func (l *Ledger) Start() date.Date {
	if !l.start.IsZero() {
		return l.start
	}
	var first date.Date
	earliest := func(d date.Date) {
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	for _, p := range l.prices {
		earliest(p.Date)
	}
	for _, r := range l.rates {
		earliest(r.Date)
	}
	for _, r := range l.depositRates {
		earliest(r.Date)
	}
	for _, tx := range l.transactions {
		earliest(tx.Date)
	}
	return first
}

// SetStart declares the ledger start date.
func (l *Ledger) SetStart(d date.Date) { l.start = d }

// Declare adds an entity to the ledger. An id can only be declared once per
// kind.
func (l *Ledger) Declare(e Entity) error {
	m := l.entities[e.Kind()]
	if _, exists := m[e.ID()]; exists {
		return fmt.Errorf("%s %q is already declared", e.Kind(), e.ID())
	}
	m[e.ID()] = e
	return nil
}

// Entity implements Directory.
func (l *Ledger) Entity(kind EntityKind, id string) (Entity, bool) {
	if kind < 0 || kind >= entityKindCount {
		return nil, false
	}
	e, ok := l.entities[kind][id]
	return e, ok
}

// Entities returns the declared entities of kind in their natural order.
func (l *Ledger) Entities(kind EntityKind) iter.Seq[Entity] {
	list := slices.Collect(maps.Values(l.entities[kind]))
	slices.SortFunc(list, compareEntities)
	return slices.Values(list)
}

func (l *Ledger) AddPrice(p PricePoint)         { l.prices = append(l.prices, p) }
func (l *Ledger) AddRate(r RatePoint)           { l.rates = append(l.rates, r) }
func (l *Ledger) AddDepositRate(r DepositRate)  { l.depositRates = append(l.depositRates, r) }
func (l *Ledger) AddOpening(o Opening)          { l.openings = append(l.openings, o) }
func (l *Ledger) AddTransaction(tx Transaction) { l.transactions = append(l.transactions, tx) }

// Transactions returns the transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	txs := slices.Clone(l.transactions)
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.Date.Compare(b.Date) })
	return slices.Values(txs)
}

// Sources returns the records of the ledger sorted the way the Cursor
// expects them. Records of the same date keep their ledger order.
func (l *Ledger) Sources() Sources {
	desc := func(a, b date.Date) int { return b.Compare(a) }

	src := Sources{
		Start:        l.Start(),
		Prices:       slices.Clone(l.prices),
		Rates:        slices.Clone(l.rates),
		DepositRates: slices.Clone(l.depositRates),
		Openings:     slices.Clone(l.openings),
		Transactions: slices.Clone(l.transactions),
	}
	// Prices and rates are walked backward: reverse before the stable sort
	// so that same-day records come out in ledger order.
	slices.Reverse(src.Prices)
	slices.SortStableFunc(src.Prices, func(a, b PricePoint) int { return desc(a.Date, b.Date) })
	slices.Reverse(src.Rates)
	slices.SortStableFunc(src.Rates, func(a, b RatePoint) int { return desc(a.Date, b.Date) })
	slices.SortStableFunc(src.DepositRates, func(a, b DepositRate) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(src.Transactions, func(a, b Transaction) int { return a.Date.Compare(b.Date) })
	return src
}

// Validate checks the references and currencies of the ledger, and returns
// the first problem found.
func (l *Ledger) Validate() error {
	for e := range l.Entities(Portfolios) {
		if err := ValidateCurrency(e.(Portfolio).Currency()); err != nil {
			return fmt.Errorf("portfolio %q: %w", e.ID(), err)
		}
	}
	for e := range l.Entities(Securities) {
		s := e.(Security)
		if err := ValidateCurrency(s.Currency()); err != nil {
			return fmt.Errorf("security %q: %w", s.ID(), err)
		}
		if s.Portfolio() != "" {
			if _, ok := l.Entity(Portfolios, s.Portfolio()); !ok {
				return fmt.Errorf("security %q: portfolio %q: %w", s.ID(), s.Portfolio(), ErrUnknownEntity)
			}
		}
	}
	for _, o := range l.openings {
		if _, ok := l.Entity(Portfolios, o.Portfolio); !ok {
			return fmt.Errorf("opening: portfolio %q: %w", o.Portfolio, ErrUnknownEntity)
		}
	}
	for _, r := range l.rates {
		if !r.Rate.IsPositive() {
			return fmt.Errorf("rate of %s on %s: %s must be positive", r.Currency, r.Date, r.Rate)
		}
		if err := l.validateDate(r.Date); err != nil {
			return fmt.Errorf("rate of %s: %w", r.Currency, err)
		}
	}
	for _, p := range l.prices {
		if err := l.validateDate(p.Date); err != nil {
			return fmt.Errorf("price of %s: %w", p.Security, err)
		}
	}
	for _, r := range l.depositRates {
		if err := l.validateDate(r.Date); err != nil {
			return fmt.Errorf("deposit rate of %s: %w", r.Portfolio, err)
		}
	}
	ids := make(map[string]bool, len(l.transactions))
	for _, tx := range l.transactions {
		if ids[tx.ID] {
			return fmt.Errorf("transaction %s on %s: duplicate id", tx.ID, tx.Date)
		}
		ids[tx.ID] = true
		if err := l.validateTransaction(tx); err != nil {
			return fmt.Errorf("transaction %s on %s: %w", tx.ID, tx.Date, err)
		}
	}
	return nil
}

// validateDate checks that a record dated d does not precede the declared
// start: the opening balances come before anything else.
func (l *Ledger) validateDate(d date.Date) error {
	if !l.start.IsZero() && d.Before(l.start) {
		return fmt.Errorf("%s is before the ledger start %s", d, l.start)
	}
	return nil
}

func (l *Ledger) validateTransaction(tx Transaction) error {
	if err := l.validateDate(tx.Date); err != nil {
		return err
	}
	if _, ok := l.Entity(Portfolios, tx.Portfolio); !ok {
		return fmt.Errorf("portfolio %q: %w", tx.Portfolio, ErrUnknownEntity)
	}
	if tx.Amount.IsNegative() {
		return fmt.Errorf("amount %s must be positive", tx.Amount)
	}
	switch tx.Kind {
	case TxBuy, TxSell, TxDividend:
		if _, ok := l.Entity(Securities, tx.Security); !ok {
			return fmt.Errorf("security %q: %w", tx.Security, ErrUnknownEntity)
		}
		if tx.Kind != TxDividend && !tx.Units.value.IsPositive() {
			return fmt.Errorf("units %s must be positive", tx.Units)
		}
	case TxTransfer:
		if _, ok := l.Entity(Portfolios, tx.Counter); !ok {
			return fmt.Errorf("counter portfolio %q: %w", tx.Counter, ErrUnknownEntity)
		}
	}
	return nil
}
