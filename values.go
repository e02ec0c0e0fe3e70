package tally

import (
	"iter"
	"slices"

	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

// Values is a snapshot of the attributes of a bucket.
//
// Numeric attributes and date attributes are kept apart; an attribute that
// was never set reads as zero. The zero Values is not usable, use NewValues.
type Values struct {
	nums  map[Attr]decimal.Decimal
	dates map[Attr]date.Date
}

// NewValues returns an empty snapshot.
func NewValues() Values {
	return Values{
		nums:  make(map[Attr]decimal.Decimal),
		dates: make(map[Attr]date.Date),
	}
}

// Get returns the value of a, or zero.
func (v Values) Get(a Attr) decimal.Decimal { return v.nums[a] }

// Lookup returns the value of a and whether it is present in the snapshot.
func (v Values) Lookup(a Attr) (decimal.Decimal, bool) {
	d, ok := v.nums[a]
	return d, ok
}

// Has reports whether a is present in the snapshot.
func (v Values) Has(a Attr) bool {
	if a.Type() == TypeDate {
		_, ok := v.dates[a]
		return ok
	}
	_, ok := v.nums[a]
	return ok
}

// Set sets the value of a numeric attribute.
func (v Values) Set(a Attr, d decimal.Decimal) {
	if a.Type() == TypeDate {
		panic("tally: Set on date attribute " + a.String())
	}
	v.nums[a] = d
}

// Date returns the value of a date attribute.
func (v Values) Date(a Attr) date.Date { return v.dates[a] }

// SetDate sets the value of a date attribute.
func (v Values) SetDate(a Attr, d date.Date) {
	if a.Type() != TypeDate {
		panic("tally: SetDate on non-date attribute " + a.String())
	}
	v.dates[a] = d
}

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	c := NewValues()
	for a, d := range v.nums {
		c.nums[a] = d
	}
	for a, d := range v.dates {
		c.dates[a] = d
	}
	return c
}

// Delta returns a new snapshot holding other - v for every numeric attribute
// present in either. Date attributes are taken from other.
func (v Values) Delta(other Values) Values {
	c := NewValues()
	for a, d := range v.nums {
		c.nums[a] = other.nums[a].Sub(d)
	}
	for a, d := range other.nums {
		if _, ok := v.nums[a]; !ok {
			c.nums[a] = d
		}
	}
	for a, d := range other.dates {
		c.dates[a] = d
	}
	return c
}

// ResetToBase zeroes every numeric attribute and clears the dates. Present
// attributes remain present.
func (v Values) ResetToBase() {
	for a := range v.nums {
		v.nums[a] = decimal.Zero
	}
	clear(v.dates)
}

// add adds every additive attribute of other to v.
func (v Values) add(other Values) {
	for a, d := range other.nums {
		if a.Additive() {
			v.nums[a] = v.nums[a].Add(d)
		}
	}
	for a, d := range other.dates {
		if d.After(v.dates[a]) {
			v.dates[a] = d
		}
	}
}

// IsZero reports whether every numeric attribute is zero.
func (v Values) IsZero() bool {
	for _, d := range v.nums {
		if !d.IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether v and other hold the same values, absent numeric
// attributes being equal to zero.
func (v Values) Equal(other Values) bool {
	if !v.Delta(other).IsZero() {
		return false
	}
	if len(v.dates) != len(other.dates) {
		return false
	}
	for a, d := range v.dates {
		if other.dates[a] != d {
			return false
		}
	}
	return true
}

// Attrs returns the attributes present in v, in declaration order.
func (v Values) Attrs() iter.Seq[Attr] {
	attrs := make([]Attr, 0, len(v.nums)+len(v.dates))
	for a := range v.nums {
		attrs = append(attrs, a)
	}
	for a := range v.dates {
		attrs = append(attrs, a)
	}
	slices.Sort(attrs)
	return slices.Values(attrs)
}

// MarshalJSON writes the attributes in declaration order.
func (v Values) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for a := range v.Attrs() {
		if a.Type() == TypeDate {
			w.Append(a.String(), v.dates[a])
			continue
		}
		w.Append(a.String(), v.nums[a])
	}
	return w.MarshalJSON()
}
