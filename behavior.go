package tally

// behavior is the part of a Bucket specific to its kind of entity.
type behavior interface {
	// seed initialises the base values of a new bucket.
	seed(b *Bucket, base Values)
	// subscribe registers b to the prices and rates it depends on.
	subscribe(b *Bucket, ctx *Context)
	// revalue recomputes the valuation of b from the current prices and
	// rates; fx is true when an exchange rate moved.
	revalue(b *Bucket, fx bool)
	// isActive reports whether the state v is materially non-zero.
	isActive(v Values) bool
}

func behaviorFor(kind EntityKind) behavior {
	switch kind {
	case Securities:
		return securityBehavior{}
	case Portfolios:
		return portfolioBehavior{}
	default:
		return flowBehavior{}
	}
}

// flowBehavior is for payees, tax bases and tags: they only accumulate
// income and expenses, and hold nothing at closing.
type flowBehavior struct{}

func (flowBehavior) seed(*Bucket, Values)        {}
func (flowBehavior) subscribe(*Bucket, *Context) {}
func (flowBehavior) revalue(*Bucket, bool)       {}
func (flowBehavior) isActive(Values) bool        { return false }

// totalsBehavior is for the totals bucket of a list.
type totalsBehavior struct{}

func (totalsBehavior) seed(*Bucket, Values)        {}
func (totalsBehavior) subscribe(*Bucket, *Context) {}
func (totalsBehavior) revalue(*Bucket, bool)       {}
func (totalsBehavior) isActive(v Values) bool      { return !v.IsZero() }

// securityBehavior values units at the current price, converted into the
// reporting currency when the security is foreign.
type securityBehavior struct{}

func (securityBehavior) seed(b *Bucket, base Values) {
	base.Set(AttrUnits, base.Get(AttrUnits))
	if b.foreign() {
		base.Set(AttrFXRevaluation, base.Get(AttrFXRevaluation))
	}
}

func (securityBehavior) subscribe(b *Bucket, ctx *Context) {
	ctx.subscribePrice(b.entity.ID(), b)
	if b.foreign() {
		ctx.subscribeRate(b.local, b)
	}
}

func (securityBehavior) revalue(b *Bucket, fx bool) {
	ctx := b.book.ctx
	v := b.history.Current()
	units := v.Get(AttrUnits)
	price := ctx.CurrentPrice(b.entity.ID())
	rate := ctx.CurrentExchangeRate(b.local)
	if !units.IsZero() {
		b.set(AttrPrice, price)
		if b.foreign() {
			b.set(AttrExchangeRate, rate)
		}
	}
	local := units.Mul(price)
	b.set(AttrLocalValue, local)

	delta := local.Mul(rate).Sub(v.Get(AttrValuation))
	if delta.IsZero() {
		return
	}
	b.adjust(AttrValuation, delta)
	if fx && b.foreign() {
		b.adjust(AttrFXRevaluation, delta)
	}
	if p := b.book.owner[b.entity.ID()]; p != nil {
		p.adjustHoldings(delta)
		if fx && b.foreign() && p.foreign() {
			p.adjust(AttrFXRevaluation, delta)
		}
	}
}

func (securityBehavior) isActive(v Values) bool { return !v.Get(AttrUnits).IsZero() }

// portfolioBehavior values the cash of a portfolio, and adds the valuation of
// the securities it owns.
type portfolioBehavior struct{}

func (portfolioBehavior) seed(b *Bucket, base Values) {
	base.Set(AttrLocalValue, base.Get(AttrLocalValue))
	if b.foreign() {
		base.Set(AttrFXRevaluation, base.Get(AttrFXRevaluation))
	}
}

func (portfolioBehavior) subscribe(b *Bucket, ctx *Context) {
	if b.foreign() {
		ctx.subscribeRate(b.local, b)
	}
	ctx.subscribeDepositRate(b.entity.ID(), b)
}

func (portfolioBehavior) revalue(b *Bucket, fx bool) {
	ctx := b.book.ctx
	v := b.history.Current()
	if r, ok := ctx.CurrentDepositRate(b.entity.ID()); ok {
		b.set(AttrDepositRate, r)
	}
	cash := v.Get(AttrLocalValue)
	rate := ctx.CurrentExchangeRate(b.local)
	if !cash.IsZero() && b.foreign() {
		b.set(AttrExchangeRate, rate)
	}
	delta := cash.Mul(rate).Add(v.Get(AttrHoldings)).Sub(v.Get(AttrValuation))
	if delta.IsZero() {
		return
	}
	b.adjust(AttrValuation, delta)
	if fx && b.foreign() {
		b.adjust(AttrFXRevaluation, delta)
	}
}

func (portfolioBehavior) isActive(v Values) bool {
	return !v.Get(AttrLocalValue).IsZero() || !v.Get(AttrHoldings).IsZero()
}
