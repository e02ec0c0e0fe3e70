package tally

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/etnz/tally/date"
)

// EntityKind is the kind of the entities tracked by buckets.
type EntityKind int

const (
	Payees EntityKind = iota
	Securities
	Portfolios
	TaxBases
	Tags

	entityKindCount
)

var entityKindNames = [entityKindCount]string{"payee", "security", "portfolio", "taxbasis", "tag"}

func (k EntityKind) String() string {
	if k < 0 || k >= entityKindCount {
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
	return entityKindNames[k]
}

// ParseEntityKind returns the kind named s (singular).
func ParseEntityKind(s string) (EntityKind, error) {
	for k, name := range entityKindNames {
		if name == s {
			return EntityKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Entity is a tracked ledger entity: a payee, a security, a portfolio, a tax
// basis or a tag.
type Entity interface {
	ID() string
	Name() string
	Kind() EntityKind
}

// closer is implemented by entities that can be closed.
type closer interface {
	ClosedOn() date.Date
}

// currencied is implemented by entities held in their own currency.
type currencied interface {
	Currency() string
}

// sequenced is implemented by entities with a declared display order.
type sequenced interface {
	Sequence() int
}

// compareEntities is the natural display order: declared sequence first,
// then name, then id.
func compareEntities(a, b Entity) int {
	sa, aok := a.(sequenced)
	sb, bok := b.(sequenced)
	if aok && bok {
		if c := cmp.Compare(sa.Sequence(), sb.Sequence()); c != 0 {
			return c
		}
	}
	if c := strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())); c != 0 {
		return c
	}
	return strings.Compare(a.ID(), b.ID())
}

// Payee is a counterpart of income and expense transactions.
type Payee struct{ id, name string }

func NewPayee(id, name string) Payee { return Payee{id: id, name: name} }

func (p Payee) ID() string       { return p.id }
func (p Payee) Name() string     { return p.name }
func (p Payee) Kind() EntityKind { return Payees }

// Security is a tradable asset, held in a single portfolio.
type Security struct {
	id, name  string
	currency  string
	portfolio string
	closed    date.Date
}

// NewSecurity returns a security quoted in currency and held in portfolio.
func NewSecurity(id, name, currency, portfolio string) Security {
	return Security{id: id, name: name, currency: currency, portfolio: portfolio}
}

// Closed returns a copy of s closed on the given date.
func (s Security) Closed(on date.Date) Security {
	s.closed = on
	return s
}

func (s Security) ID() string          { return s.id }
func (s Security) Name() string        { return s.name }
func (s Security) Kind() EntityKind    { return Securities }
func (s Security) Currency() string    { return s.currency }
func (s Security) Portfolio() string   { return s.portfolio }
func (s Security) ClosedOn() date.Date { return s.closed }

// Portfolio is a cash account that may hold securities.
type Portfolio struct {
	id, name string
	currency string
	closed   date.Date
}

// NewPortfolio returns a portfolio whose cash is in currency.
func NewPortfolio(id, name, currency string) Portfolio {
	return Portfolio{id: id, name: name, currency: currency}
}

// Closed returns a copy of p closed on the given date.
func (p Portfolio) Closed(on date.Date) Portfolio {
	p.closed = on
	return p
}

func (p Portfolio) ID() string          { return p.id }
func (p Portfolio) Name() string        { return p.name }
func (p Portfolio) Kind() EntityKind    { return Portfolios }
func (p Portfolio) Currency() string    { return p.currency }
func (p Portfolio) ClosedOn() date.Date { return p.closed }

// TaxBasis is a line of a tax return amounts are routed to.
type TaxBasis struct {
	id, name string
	seq      int
}

func NewTaxBasis(id, name string, sequence int) TaxBasis {
	return TaxBasis{id: id, name: name, seq: sequence}
}

func (t TaxBasis) ID() string       { return t.id }
func (t TaxBasis) Name() string     { return t.name }
func (t TaxBasis) Kind() EntityKind { return TaxBases }
func (t TaxBasis) Sequence() int    { return t.seq }

// Tag is a free label attached to transactions.
type Tag struct{ id, name string }

func NewTag(id, name string) Tag { return Tag{id: id, name: name} }

func (t Tag) ID() string       { return t.id }
func (t Tag) Name() string     { return t.name }
func (t Tag) Kind() EntityKind { return Tags }

// label is the entity used for payees, tags and tax bases referenced by a
// transaction but unknown to the Directory.
type label struct {
	id   string
	kind EntityKind
}

func (l label) ID() string       { return l.id }
func (l label) Name() string     { return l.id }
func (l label) Kind() EntityKind { return l.kind }

// Directory resolves entities by kind and id. It is implemented by the data
// layer, see Ledger.
type Directory interface {
	Entity(kind EntityKind, id string) (Entity, bool)
}

// TaxRoute tells which tax basis a category is reported on, and whether the
// basis collects income or expenses.
type TaxRoute struct {
	Basis  string
	Income bool
}

// Classifier routes transaction categories to tax bases.
type Classifier interface {
	Classify(category string) (TaxRoute, bool)
}

// TaxRules is a Classifier backed by a map from category to route.
type TaxRules map[string]TaxRoute

// Classify implements Classifier.
func (r TaxRules) Classify(category string) (TaxRoute, bool) {
	route, ok := r[category]
	return route, ok
}
