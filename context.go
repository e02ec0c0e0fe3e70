package tally

import (
	"github.com/shopspring/decimal"
)

// revaluer is notified when a price or rate it subscribed to changes.
type revaluer interface {
	revalue(fx bool)
}

// Context holds the latest known security prices, exchange rates and deposit
// rates while the ledger is replayed.
//
// Only the Cursor updates it, as it moves past price and rate events. Buckets
// read it, and subscribe to be revalued when a value they depend on changes.
type Context struct {
	reporting    string
	prices       map[string]decimal.Decimal
	rates        map[string]decimal.Decimal
	depositRates map[string]decimal.Decimal

	priceSubs   map[string][]revaluer
	rateSubs    map[string][]revaluer
	depositSubs map[string][]revaluer
}

// NewContext returns an empty context reporting in currency.
func NewContext(currency string) *Context {
	return &Context{
		reporting:    currency,
		prices:       make(map[string]decimal.Decimal),
		rates:        make(map[string]decimal.Decimal),
		depositRates: make(map[string]decimal.Decimal),
		priceSubs:    make(map[string][]revaluer),
		rateSubs:     make(map[string][]revaluer),
		depositSubs:  make(map[string][]revaluer),
	}
}

// ReportingCurrency returns the currency valuations are expressed in.
func (c *Context) ReportingCurrency() string { return c.reporting }

// CurrentPrice returns the latest price of security, 1 if it was never seen.
func (c *Context) CurrentPrice(security string) decimal.Decimal {
	if p, ok := c.prices[security]; ok {
		return p
	}
	return decimal.NewFromInt(1)
}

// CurrentExchangeRate returns the value of one unit of currency in the
// reporting currency, 1 if it was never seen.
func (c *Context) CurrentExchangeRate(currency string) decimal.Decimal {
	if currency == c.reporting || currency == "" {
		return decimal.NewFromInt(1)
	}
	if r, ok := c.rates[currency]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// CurrentDepositRate returns the latest deposit rate of portfolio, if any.
func (c *Context) CurrentDepositRate(portfolio string) (decimal.Decimal, bool) {
	r, ok := c.depositRates[portfolio]
	return r, ok
}

// Convert converts amount into currency using the current exchange rates.
func (c *Context) Convert(amount Money, currency string) Money {
	if amount.cur == currency || amount.cur == "" {
		return amount.In(currency)
	}
	from := c.CurrentExchangeRate(amount.cur)
	to := c.CurrentExchangeRate(currency)
	if !to.IsPositive() {
		logger.Error().Str("currency", currency).Stringer("rate", to).Msg("cannot convert into a currency without a positive rate")
		return Money{cur: currency}
	}
	return Money{value: amount.value.Mul(from).Div(to), cur: currency}
}

// Report converts amount into the reporting currency.
func (c *Context) Report(amount Money) Money { return c.Convert(amount, c.reporting) }

func (c *Context) subscribePrice(security string, r revaluer) {
	c.priceSubs[security] = append(c.priceSubs[security], r)
}

func (c *Context) subscribeRate(currency string, r revaluer) {
	if currency == c.reporting {
		return
	}
	c.rateSubs[currency] = append(c.rateSubs[currency], r)
}

func (c *Context) subscribeDepositRate(portfolio string, r revaluer) {
	c.depositSubs[portfolio] = append(c.depositSubs[portfolio], r)
}

// updatePrices records the prices of one event, then revalues the subscribers
// of every security that changed.
func (c *Context) updatePrices(points []PricePoint) {
	changed := make([]string, 0, len(points))
	for _, p := range points {
		if old, ok := c.prices[p.Security]; ok && old.Equal(p.Price) {
			continue
		}
		c.prices[p.Security] = p.Price
		changed = append(changed, p.Security)
	}
	for _, id := range changed {
		for _, r := range c.priceSubs[id] {
			r.revalue(false)
		}
	}
}

func (c *Context) updateRates(points []RatePoint) {
	changed := make([]string, 0, len(points))
	for _, p := range points {
		if !p.Rate.IsPositive() {
			logger.Warn().Str("currency", p.Currency).Stringer("date", p.Date).Stringer("rate", p.Rate).Msg("ignoring non positive exchange rate")
			continue
		}
		if old, ok := c.rates[p.Currency]; ok && old.Equal(p.Rate) {
			continue
		}
		c.rates[p.Currency] = p.Rate
		changed = append(changed, p.Currency)
	}
	for _, cur := range changed {
		for _, r := range c.rateSubs[cur] {
			r.revalue(true)
		}
	}
}

func (c *Context) updateDepositRates(points []DepositRate) {
	for _, p := range points {
		c.depositRates[p.Portfolio] = p.Rate
	}
	for _, p := range points {
		for _, r := range c.depositSubs[p.Portfolio] {
			r.revalue(false)
		}
	}
}
