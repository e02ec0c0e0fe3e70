package tally

import (
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/tally/date"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of views a Book keeps when Options does not
// say otherwise.
const DefaultCacheSize = 32

// Options configures Build.
type Options struct {
	// Currency is the reporting currency. Required.
	Currency string
	// Classifier routes transaction categories to tax bases. Optional.
	Classifier Classifier
	// CacheSize is the number of views memoized by the Book.
	CacheSize int
}

// Book is the result of replaying a ledger: one full BucketList per kind of
// entity. Views at a date or over a range are sliced from it.
type Book struct {
	ctx        *Context
	dir        Directory
	classifier Classifier

	lists   [entityKindCount]*BucketList
	owner   map[string]*Bucket // security ID to the bucket of its portfolio
	touched []*Bucket
	marked  map[*Bucket]bool

	events     []*Event
	start, end date.Date
	views      *lru.Cache[viewKey, *View]
}

type viewKey struct {
	ranged     bool
	start, end date.Date
}

// Build replays src and returns the resulting Book. Securities and
// portfolios must be known to dir, other entities may be unknown.
func Build(src Sources, dir Directory, opts Options) (*Book, error) {
	if opts.Currency == "" {
		return nil, fmt.Errorf("reporting currency is required")
	}
	if err := ValidateCurrency(opts.Currency); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	views, err := lru.New[viewKey, *View](size)
	if err != nil {
		return nil, fmt.Errorf("could not create the view cache: %w", err)
	}
	b := &Book{
		ctx:        NewContext(opts.Currency),
		dir:        dir,
		classifier: opts.Classifier,
		owner:      make(map[string]*Bucket),
		marked:     make(map[*Bucket]bool),
		start:      src.Start,
		end:        src.Start,
		views:      views,
	}
	for k := range entityKindCount {
		b.lists[k] = newFullList(k, opts.Currency, dir, b)
	}

	c := NewCursor(src, b.ctx)
	for e := c.NextEvent(); e != nil; e = c.NextEvent() {
		if err := b.apply(e); err != nil {
			return nil, fmt.Errorf("event %s: %w", e, err)
		}
		b.flush(e)
		b.events = append(b.events, e)
		b.end = e.Date
	}

	for _, l := range b.lists {
		l.ProduceTotals()
		for _, bk := range l.order {
			if err := checkClosed(bk, bk.history.Current(), b.end); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug().Int("events", len(b.events)).Stringer("start", b.start).Stringer("end", b.end).Msg("book built")
	return b, nil
}

// Context returns the prices and rates as of the end of the ledger.
func (b *Book) Context() *Context { return b.ctx }

// Currency returns the reporting currency.
func (b *Book) Currency() string { return b.ctx.reporting }

// Start returns the ledger start date.
func (b *Book) Start() date.Date { return b.start }

// End returns the date of the last event.
func (b *Book) End() date.Date { return b.end }

// List returns the full list of kind.
func (b *Book) List(kind EntityKind) *BucketList { return b.lists[kind] }

// Events returns the events of the ledger in chronological order.
func (b *Book) Events() iter.Seq[*Event] { return slices.Values(b.events) }

// touch marks bk as changed by the current event.
func (b *Book) touch(bk *Bucket) {
	if b.marked[bk] {
		return
	}
	b.marked[bk] = true
	b.touched = append(b.touched, bk)
}

// flush registers e once in every bucket it changed, with the fully combined
// values.
func (b *Book) flush(e *Event) {
	for _, bk := range b.touched {
		v := bk.history.Current()
		if e.Kind == EventTransaction {
			v.SetDate(AttrLastActivity, e.Date)
		}
		bk.history.RegisterEvent(e, v)
	}
	logger.Debug().Stringer("event", e).Int("records", e.Len()).Int("buckets", len(b.touched)).Msg("applied")
	b.touched = b.touched[:0]
	clear(b.marked)
}

// bucket returns the bucket of a security or a portfolio, which must be
// known to the Directory.
func (b *Book) bucket(kind EntityKind, id string) (*Bucket, error) {
	l := b.lists[kind]
	if bk, ok := l.Lookup(id); ok {
		return bk, nil
	}
	if b.dir == nil {
		return nil, fmt.Errorf("%s %q: %w", kind, id, ErrUnknownEntity)
	}
	e, ok := b.dir.Entity(kind, id)
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, id, ErrUnknownEntity)
	}
	if s, ok := e.(Security); ok && s.Portfolio() != "" {
		p, err := b.bucket(Portfolios, s.Portfolio())
		if err != nil {
			return nil, fmt.Errorf("portfolio of %s: %w", id, err)
		}
		b.owner[id] = p
	}
	return l.GetBucket(id), nil
}

func (b *Book) apply(e *Event) error {
	switch e.Kind {
	case EventDepositRate:
		// Record the rate even on portfolios without any activity yet.
		for _, r := range e.DepositRates {
			p, err := b.bucket(Portfolios, r.Portfolio)
			if err != nil {
				return err
			}
			p.revalue(false)
		}
	case EventOpeningBalance:
		for _, o := range e.Openings {
			p, err := b.bucket(Portfolios, o.Portfolio)
			if err != nil {
				return err
			}
			p.adjustCash(b.ctx.Convert(o.Amount, p.local))
		}
	case EventTransaction:
		for _, tx := range e.Transactions {
			if err := b.applyTransaction(tx); err != nil {
				return fmt.Errorf("transaction %s: %w", tx.ID, err)
			}
		}
	}
	// price and rate events were applied by the Cursor through the Context.
	return nil
}

func (b *Book) applyTransaction(tx Transaction) error {
	p, err := b.bucket(Portfolios, tx.Portfolio)
	if err != nil {
		return err
	}
	amount := tx.Amount
	if amount.cur == "" {
		amount = amount.In(p.local)
	}
	cash := b.ctx.Convert(amount, p.local)
	reported := b.ctx.Report(amount)

	switch tx.Kind {
	case TxIncome, TxExpense:
		s := reported
		if tx.Kind == TxExpense {
			s, cash = s.Neg(), cash.Neg()
		}
		p.adjustCash(cash)
		p.addFlow(s)
		b.applyFlow(tx, s)

	case TxDividend:
		s, err := b.bucket(Securities, tx.Security)
		if err != nil {
			return err
		}
		s.addIncome(reported)
		p.adjustCash(cash)
		p.addIncome(reported)
		b.applyFlow(tx, reported)

	case TxBuy:
		s, err := b.bucket(Securities, tx.Security)
		if err != nil {
			return err
		}
		if b.owner[tx.Security] == nil {
			b.owner[tx.Security] = p
		}
		p.adjustCash(cash.Neg())
		s.adjustInvested(reported)
		s.adjustUnits(tx.Units)

	case TxSell:
		s, err := b.bucket(Securities, tx.Security)
		if err != nil {
			return err
		}
		// average cost basis
		held := s.history.Current().Get(AttrUnits)
		cost := M(0, b.ctx.reporting)
		if !held.IsZero() {
			invested := s.Money(AttrInvested)
			cost = invested.Scale(tx.Units.value.Div(held))
		}
		s.adjustInvested(cost.Neg())
		s.adjustRealisedGains(reported.Sub(cost))
		s.adjustUnits(tx.Units.Neg())
		p.adjustCash(cash)

	case TxTransfer:
		c, err := b.bucket(Portfolios, tx.Counter)
		if err != nil {
			return err
		}
		p.adjustCash(cash.Neg())
		c.adjustCash(b.ctx.Convert(amount, c.local))

	default:
		return fmt.Errorf("unsupported transaction kind %v", tx.Kind)
	}
	return nil
}

// applyFlow routes the signed reported amount s of tx to its payee, its tags
// and the tax basis of its category.
func (b *Book) applyFlow(tx Transaction, s Money) {
	if tx.Payee != "" {
		b.lists[Payees].GetBucket(tx.Payee).addFlow(s)
	}
	for _, t := range tx.Tags {
		b.lists[Tags].GetBucket(t).addFlow(s)
	}
	if b.classifier == nil || tx.Category == "" {
		return
	}
	route, ok := b.classifier.Classify(tx.Category)
	if !ok {
		return
	}
	basis := b.lists[TaxBases].GetBucket(route.Basis)
	if route.Income {
		basis.addIncome(s)
	} else {
		basis.addExpense(s.Neg())
	}
}

// AsOf returns the view of the book at the end of day d.
func (b *Book) AsOf(d date.Date) (*View, error) {
	key := viewKey{start: d, end: d}
	if v, ok := b.views.Get(key); ok {
		return v, nil
	}
	v := &View{end: d}
	for k, l := range b.lists {
		dl, err := NewAsOfList(l, d)
		if err != nil {
			return nil, err
		}
		v.lists[k] = dl
	}
	b.views.Add(key, v)
	return v, nil
}

// Ranged returns the view of the movements of the book during [start, end).
func (b *Book) Ranged(start, end date.Date) (*View, error) {
	key := viewKey{ranged: true, start: start, end: end}
	if v, ok := b.views.Get(key); ok {
		return v, nil
	}
	v := &View{ranged: true, start: start, end: end}
	for k, l := range b.lists {
		dl, err := NewRangedList(l, start, end)
		if err != nil {
			return nil, err
		}
		v.lists[k] = dl
	}
	b.views.Add(key, v)
	return v, nil
}

// Over returns the view of the movements of the book during r, both ends
// included.
func (b *Book) Over(r date.Range) (*View, error) {
	return b.Ranged(r.HalfOpen())
}
