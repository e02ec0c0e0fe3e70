package tally

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Bucket is the running analytic state of one entity: its values and their
// history. The totals bucket of a list has no entity.
//
// A bucket is mutated only while the Book replays the ledger; buckets of
// derived lists are read-only.
type Bucket struct {
	entity    Entity // nil for the totals bucket
	kind      EntityKind
	local     string // currency of the entity, the reporting one when it has none
	reporting string
	history   *History
	behavior  behavior
	book      *Book // nil on derived and orphan buckets

	closing Values // unadjusted state of a ranged bucket at the end of the range
	delta   decimal.Decimal
}

func newBucket(kind EntityKind, e Entity, reporting string, book *Book) *Bucket {
	b := &Bucket{
		entity:    e,
		kind:      kind,
		local:     reporting,
		reporting: reporting,
		book:      book,
	}
	if c, ok := e.(currencied); ok && c.Currency() != "" {
		b.local = c.Currency()
	}
	if e == nil {
		b.behavior = totalsBehavior{}
	} else {
		b.behavior = behaviorFor(kind)
	}
	base := NewValues()
	b.behavior.seed(b, base)
	b.history = NewHistory(base)
	if book != nil {
		b.behavior.subscribe(b, book.ctx)
	}
	return b
}

// derive returns a read-only copy of b over h.
func (b *Bucket) derive(h *History) *Bucket {
	return &Bucket{
		entity:    b.entity,
		kind:      b.kind,
		local:     b.local,
		reporting: b.reporting,
		history:   h,
		behavior:  b.behavior,
	}
}

// Entity returns the entity of the bucket, nil for a totals bucket.
func (b *Bucket) Entity() Entity { return b.entity }

// Kind returns the kind of entity of the bucket.
func (b *Bucket) Kind() EntityKind { return b.kind }

// IsTotals reports whether b is the totals bucket of a list.
func (b *Bucket) IsTotals() bool { return b.entity == nil }

// Name returns the entity name, or "Total".
func (b *Bucket) Name() string {
	if b.entity == nil {
		return "Total"
	}
	return b.entity.Name()
}

// Currency returns the currency of the entity.
func (b *Bucket) Currency() string { return b.local }

// ReportingCurrency returns the currency of the valuations.
func (b *Bucket) ReportingCurrency() string { return b.reporting }

// Values returns a copy of the current values.
func (b *Bucket) Values() Values { return b.history.Current().Clone() }

// BaseValues returns a copy of the base values.
func (b *Bucket) BaseValues() Values { return b.history.Base().Clone() }

// Closing returns the state at the end of the view: for a ranged bucket the
// cumulative values, before they were turned into movements.
func (b *Bucket) Closing() Values {
	if b.closing.nums != nil {
		return b.closing.Clone()
	}
	return b.Values()
}

// ValuesForEvent returns the values of b right after e.
func (b *Bucket) ValuesForEvent(e *Event) (Values, bool) {
	v, ok := b.history.ValuesForEvent(e)
	if !ok {
		return Values{}, false
	}
	return v.Clone(), true
}

// DeltaForEvent returns the change of a caused by e.
func (b *Bucket) DeltaForEvent(e *Event, a Attr) (decimal.Decimal, bool) {
	return b.history.DeltaForEvent(e, a)
}

// Events returns the events that changed b, with the values after each one.
func (b *Bucket) Events() iter.Seq2[*Event, Values] { return b.history.Events() }

// Money returns the value of a as Money, in the entity or reporting currency.
func (b *Bucket) Money(a Attr) Money {
	cur := b.reporting
	if a.Local() {
		cur = b.local
	}
	return M(b.history.Current().Get(a), cur)
}

// Units returns the number of units held.
func (b *Bucket) Units() Quantity { return Q(b.history.Current().Get(AttrUnits)) }

// Valuation returns the value in the reporting currency.
func (b *Bucket) Valuation() Money { return b.Money(AttrValuation) }

// UnrealisedGains returns the valuation in excess of the invested amount.
func (b *Bucket) UnrealisedGains() Money {
	return b.Money(AttrValuation).Sub(b.Money(AttrInvested))
}

// Delta returns the change of valuation computed by CalculateDelta.
func (b *Bucket) Delta() Money { return M(b.delta, b.reporting) }

// CalculateDelta computes the valuation change since the base values.
func (b *Bucket) CalculateDelta() {
	current := b.history.Current().Get(AttrValuation)
	base := b.history.Base().Get(AttrValuation)
	b.delta = current.Sub(base)
}

// IsActive reports whether the closing state is materially non-zero.
func (b *Bucket) IsActive() bool { return b.behavior.isActive(b.Closing()) }

// IsIdle reports whether no event changed the bucket.
func (b *Bucket) IsIdle() bool { return b.history.IsIdle() }

// MarshalJSON implements json.Marshaler.
func (b *Bucket) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if b.entity != nil {
		w.Append("id", b.entity.ID())
	}
	w.Append("name", b.Name())
	w.Optional("currency", b.local)
	w.Append("values", b.history.Current())
	if b.closing.nums != nil {
		w.Append("closing", b.closing)
	}
	w.Append("delta", b.delta)
	return w.MarshalJSON()
}

// --- mutations, only while the book replays the ledger ---

// revalue implements revaluer.
func (b *Bucket) revalue(fx bool) {
	if b.book == nil {
		return
	}
	b.behavior.revalue(b, fx)
}

func (b *Bucket) touch() {
	if b.book != nil {
		b.book.touch(b)
	}
}

func (b *Bucket) foreign() bool { return b.local != b.reporting }

// adjust adds d to a. A zero d is a no-op: the bucket is not marked as changed.
func (b *Bucket) adjust(a Attr, d decimal.Decimal) {
	if d.IsZero() {
		return
	}
	v := b.history.Current()
	v.Set(a, v.Get(a).Add(d))
	b.touch()
}

// set sets a to d, unless it already holds that value.
func (b *Bucket) set(a Attr, d decimal.Decimal) {
	v := b.history.Current()
	if old, ok := v.Lookup(a); (ok && old.Equal(d)) || (!ok && d.IsZero()) {
		return
	}
	v.Set(a, d)
	b.touch()
}

// reported returns the value of m, that must be in the reporting currency.
func (b *Bucket) reported(m Money) decimal.Decimal {
	cur(m, Money{cur: b.reporting}) // panics on a currency mismatch
	return m.value
}

func (b *Bucket) addIncome(m Money)           { b.adjust(AttrIncome, b.reported(m)) }
func (b *Bucket) addExpense(m Money)          { b.adjust(AttrExpense, b.reported(m)) }
func (b *Bucket) adjustInvested(m Money)      { b.adjust(AttrInvested, b.reported(m)) }
func (b *Bucket) adjustRealisedGains(m Money) { b.adjust(AttrRealisedGains, b.reported(m)) }

// addFlow records a signed amount: positive as income, negative as expense.
func (b *Bucket) addFlow(s Money) {
	if s.IsNegative() {
		b.addExpense(s.Neg())
		return
	}
	b.addIncome(s)
}

func (b *Bucket) adjustUnits(q Quantity) {
	b.adjust(AttrUnits, q.value)
	b.revalue(false)
}

// adjustCash moves the cash of a portfolio bucket, m is in the portfolio currency.
func (b *Bucket) adjustCash(m Money) {
	cur(m, Money{cur: b.local}) // panics on a currency mismatch
	b.adjust(AttrLocalValue, m.value)
	b.revalue(false)
}

// adjustHoldings records a change of valuation of a security owned by a portfolio bucket.
func (b *Bucket) adjustHoldings(d decimal.Decimal) {
	b.adjust(AttrHoldings, d)
	b.adjust(AttrValuation, d)
}
