package tally

import (
	"iter"
	"slices"

	"github.com/etnz/tally/date"
)

type lifecycle int

const (
	fullList lifecycle = iota
	asOfList
	rangedList
)

func (l lifecycle) String() string {
	switch l {
	case asOfList:
		return "as-of"
	case rangedList:
		return "ranged"
	default:
		return "full"
	}
}

// BucketList holds the buckets of one kind of entity, and their totals.
//
// A full list is built by a Book while it replays the ledger. It can then be
// sliced into an as-of-date list (NewAsOfList) or a ranged list
// (NewRangedList). Derived lists are read-only and cannot be sliced again.
type BucketList struct {
	kind      EntityKind
	lifecycle lifecycle
	reporting string
	dir       Directory
	book      *Book // full lists only

	buckets map[string]*Bucket
	order   []*Bucket // sorted by ProduceTotals
	totals  *Bucket

	start, end date.Date // bounds of a derived list: [start, end) or as of end
}

func newFullList(kind EntityKind, reporting string, dir Directory, book *Book) *BucketList {
	l := &BucketList{
		kind:      kind,
		lifecycle: fullList,
		reporting: reporting,
		dir:       dir,
		book:      book,
		buckets:   make(map[string]*Bucket),
	}
	l.totals = newBucket(kind, nil, reporting, nil)
	return l
}

// derived returns an empty list with the same settings as l.
func (l *BucketList) derived(lc lifecycle, start, end date.Date) *BucketList {
	d := &BucketList{
		kind:      l.kind,
		lifecycle: lc,
		reporting: l.reporting,
		dir:       l.dir,
		buckets:   make(map[string]*Bucket),
		start:     start,
		end:       end,
	}
	d.totals = newBucket(l.kind, nil, l.reporting, nil)
	return d
}

// Kind returns the kind of entity of the list.
func (l *BucketList) Kind() EntityKind { return l.kind }

// Len returns the number of buckets, the totals excluded.
func (l *BucketList) Len() int { return len(l.order) }

// Totals returns the totals bucket.
func (l *BucketList) Totals() *Bucket { return l.totals }

// All returns the buckets in display order, the totals excluded.
func (l *BucketList) All() iter.Seq[*Bucket] { return slices.Values(l.order) }

// Lookup returns the bucket of the entity id, if present.
func (l *BucketList) Lookup(id string) (*Bucket, bool) {
	b, ok := l.buckets[id]
	return b, ok
}

// resolve returns the entity id, or a bare label when the Directory does
// not know it.
func (l *BucketList) resolve(id string) Entity {
	if l.dir != nil {
		if e, ok := l.dir.Entity(l.kind, id); ok {
			return e
		}
	}
	return label{id: id, kind: l.kind}
}

// GetBucket returns the bucket of the entity id. On a full list a missing
// bucket is created and inserted. Derived lists are never modified: a
// missing bucket is returned as an orphan.
func (l *BucketList) GetBucket(id string) *Bucket {
	if b, ok := l.buckets[id]; ok {
		return b
	}
	if l.lifecycle != fullList {
		return newBucket(l.kind, l.resolve(id), l.reporting, nil)
	}
	b := newBucket(l.kind, l.resolve(id), l.reporting, l.book)
	l.insert(b)
	return b
}

// GetMatching returns the bucket of e if present, otherwise an orphan bucket
// at zero, which is never inserted in the list.
func (l *BucketList) GetMatching(e Entity) *Bucket {
	if b, ok := l.buckets[e.ID()]; ok {
		return b
	}
	return newBucket(l.kind, e, l.reporting, nil)
}

func (l *BucketList) insert(b *Bucket) {
	l.buckets[b.entity.ID()] = b
	l.order = append(l.order, b)
}

// ProduceTotals computes the delta of every bucket and sums them into the
// totals bucket, then sorts the buckets in the entity natural order.
func (l *BucketList) ProduceTotals() {
	totals := newBucket(l.kind, nil, l.reporting, nil)
	if l.lifecycle == rangedList {
		totals.closing = NewValues()
	}
	for _, b := range l.order {
		b.CalculateDelta()
		totals.history.Current().add(b.history.Current())
		totals.history.Base().add(b.history.Base())
		if totals.closing.nums != nil {
			totals.closing.add(b.Closing())
		}
	}
	slices.SortStableFunc(l.order, func(a, b *Bucket) int { return compareEntities(a.entity, b.entity) })
	totals.CalculateDelta()
	l.totals = totals
}

// PruneInactive drops the buckets whose closing state is zero, and updates
// the totals.
func (l *BucketList) PruneInactive() {
	l.order = slices.DeleteFunc(l.order, func(b *Bucket) bool {
		if b.IsActive() {
			return false
		}
		delete(l.buckets, b.entity.ID())
		return true
	})
	l.ProduceTotals()
}

// NewAsOfList returns the list of the buckets of base as they were at the
// end of cutoff. Buckets without any event by then are left out.
//
// It fails with a *DataError when a closed entity is still active.
func NewAsOfList(base *BucketList, cutoff date.Date) (*BucketList, error) {
	if base.lifecycle != fullList {
		return nil, &sliceError{base.lifecycle}
	}
	d := base.derived(asOfList, date.Date{}, cutoff)
	for _, b := range base.order {
		h := b.history.AsOf(cutoff)
		if h.IsIdle() {
			continue
		}
		nb := b.derive(h)
		if err := checkClosed(nb, h.Current(), cutoff); err != nil {
			return nil, err
		}
		d.insert(nb)
	}
	d.ProduceTotals()
	return d, nil
}

// NewRangedList returns the list of the buckets of base holding their
// movements during [start, end). Buckets without any event in the range are
// kept only when they are active at its end.
//
// It fails with a *DataError when a closed entity is still active.
func NewRangedList(base *BucketList, start, end date.Date) (*BucketList, error) {
	if base.lifecycle != fullList {
		return nil, &sliceError{base.lifecycle}
	}
	d := base.derived(rangedList, start, end)
	last := end.Add(-1)
	for _, b := range base.order {
		h := b.history.Ranged(start, end)
		nb := b.derive(h)
		nb.closing = h.Current().Clone()
		if h.IsIdle() && !nb.IsActive() {
			continue
		}
		if err := checkClosed(nb, nb.closing, last); err != nil {
			return nil, err
		}
		h.AdjustToBase()
		d.insert(nb)
	}
	d.ProduceTotals()
	return d, nil
}

// MarshalJSON implements json.Marshaler.
func (l *BucketList) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", l.kind.String())
	w.Append("buckets", l.order)
	w.Append("totals", l.totals)
	return w.MarshalJSON()
}
