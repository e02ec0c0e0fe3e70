package tally

import (
	"github.com/etnz/tally/date"
)

// Cursor merges the Sources into one chronological stream of Events.
//
// The earliest pending record wins. Records of the same day are ordered by
// kind: security prices, exchange rates, deposit rates, the opening
// balances, and then transactions. All the records of the same source and
// the same day are coalesced into one Event.
//
// Moving past price and rate events updates the Context, which in turn
// revalues the buckets that subscribed to it.
type Cursor struct {
	src Sources
	ctx *Context

	price   int // walks Prices backward
	rate    int // walks Rates backward
	deposit int
	tx      int
	opened  bool // the opening balance event was emitted
	lastID  int
}

// NewCursor returns a cursor at the beginning of src. ctx may be nil when
// nobody consumes prices and rates.
func NewCursor(src Sources, ctx *Context) *Cursor {
	if ctx == nil {
		ctx = NewContext("")
	}
	return &Cursor{
		src:   src,
		ctx:   ctx,
		price: len(src.Prices) - 1,
		rate:  len(src.Rates) - 1,
	}
}

// Context returns the context updated by the cursor.
func (c *Cursor) Context() *Context { return c.ctx }

// peek returns the date of the next record of kind, if any.
func (c *Cursor) peek(kind EventKind) (date.Date, bool) {
	switch kind {
	case EventSecurityPrice:
		if c.price >= 0 {
			return c.src.Prices[c.price].Date, true
		}
	case EventExchangeRate:
		if c.rate >= 0 {
			return c.src.Rates[c.rate].Date, true
		}
	case EventDepositRate:
		if c.deposit < len(c.src.DepositRates) {
			return c.src.DepositRates[c.deposit].Date, true
		}
	case EventOpeningBalance:
		if !c.opened {
			return c.src.Start, true
		}
	case EventTransaction:
		if c.tx < len(c.src.Transactions) {
			return c.src.Transactions[c.tx].Date, true
		}
	}
	return date.Date{}, false
}

// next returns the kind and date of the next event.
func (c *Cursor) next() (EventKind, date.Date, bool) {
	var (
		kind  EventKind
		on    date.Date
		found bool
	)
	// Kinds are visited in priority order, a later kind only wins when strictly earlier.
	for k := EventSecurityPrice; k <= EventTransaction; k++ {
		d, ok := c.peek(k)
		if !ok {
			continue
		}
		if !found || d.Before(on) {
			kind, on, found = k, d, true
		}
	}
	return kind, on, found
}

// NextEventType returns the kind of the next event without consuming it.
func (c *Cursor) NextEventType() (EventKind, bool) {
	kind, _, ok := c.next()
	return kind, ok
}

// NextEvent consumes and returns the next event, or nil when all the sources
// are exhausted.
func (c *Cursor) NextEvent() *Event {
	kind, on, ok := c.next()
	if !ok {
		return nil
	}
	c.lastID++
	e := &Event{ID: c.lastID, Kind: kind, Date: on}
	switch kind {
	case EventSecurityPrice:
		for c.price >= 0 && c.src.Prices[c.price].Date == on {
			e.Prices = append(e.Prices, c.src.Prices[c.price])
			c.price--
		}
		c.ctx.updatePrices(e.Prices)
	case EventExchangeRate:
		for c.rate >= 0 && c.src.Rates[c.rate].Date == on {
			e.Rates = append(e.Rates, c.src.Rates[c.rate])
			c.rate--
		}
		c.ctx.updateRates(e.Rates)
	case EventDepositRate:
		for c.deposit < len(c.src.DepositRates) && c.src.DepositRates[c.deposit].Date == on {
			e.DepositRates = append(e.DepositRates, c.src.DepositRates[c.deposit])
			c.deposit++
		}
		c.ctx.updateDepositRates(e.DepositRates)
	case EventOpeningBalance:
		e.Openings = c.src.Openings
		c.opened = true
	case EventTransaction:
		for c.tx < len(c.src.Transactions) && c.src.Transactions[c.tx].Date == on {
			e.Transactions = append(e.Transactions, c.src.Transactions[c.tx])
			c.tx++
		}
	}
	logger.Trace().Int("id", e.ID).Stringer("kind", kind).Stringer("date", on).Int("records", e.Len()).Msg("cursor")
	return e
}
