package tally

import "github.com/etnz/tally/date"

// View is the set of derived bucket lists of a Book, either as of a date or
// over a range.
//
// Views are memoized by the Book: pruning one of its lists affects every
// later caller asking for the same view.
type View struct {
	ranged     bool
	start, end date.Date
	lists      [entityKindCount]*BucketList
}

// IsRanged reports whether the view holds movements over a range rather than
// the state at a date.
func (v *View) IsRanged() bool { return v.ranged }

// Start returns the first day of a ranged view, the zero date otherwise.
func (v *View) Start() date.Date { return v.start }

// End returns the cutoff of an as-of view, or the first day after a ranged one.
func (v *View) End() date.Date { return v.end }

// List returns the list of kind.
func (v *View) List(kind EntityKind) *BucketList { return v.lists[kind] }

func (v *View) Payees() *BucketList     { return v.lists[Payees] }
func (v *View) Securities() *BucketList { return v.lists[Securities] }
func (v *View) Portfolios() *BucketList { return v.lists[Portfolios] }
func (v *View) TaxBases() *BucketList   { return v.lists[TaxBases] }
func (v *View) Tags() *BucketList       { return v.lists[Tags] }

// MarshalJSON implements json.Marshaler.
func (v *View) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if v.ranged {
		w.Append("start", v.start)
		w.Append("end", v.end)
	} else {
		w.Append("asOf", v.end)
	}
	for k, l := range v.lists {
		w.Append(EntityKind(k).String(), l)
	}
	return w.MarshalJSON()
}
