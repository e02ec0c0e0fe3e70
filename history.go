package tally

import (
	"iter"
	"slices"
	"sort"

	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

// History is the chronological log of the values of one bucket, one snapshot
// per event that changed it.
//
// Besides the log, a History has a current snapshot, mutated in place while
// events are applied, and a base snapshot: the values before the first
// event of the log.
type History struct {
	events  []*Event
	values  []Values
	index   map[int]int // event ID to position in events
	current Values
	base    Values
}

// NewHistory returns an empty history starting from base.
func NewHistory(base Values) *History {
	return &History{
		index:   make(map[int]int),
		current: base.Clone(),
		base:    base.Clone(),
	}
}

// Current returns the live current snapshot.
func (h *History) Current() Values { return h.current }

// Base returns the base snapshot.
func (h *History) Base() Values { return h.base }

// Len returns the number of events in the history.
func (h *History) Len() int { return len(h.events) }

// IsIdle reports whether no event is registered.
func (h *History) IsIdle() bool { return len(h.events) == 0 }

// RegisterEvent records a copy of current as the values for e, and makes
// current the live snapshot.
//
// Registering an event already in the history overwrites its values.
func (h *History) RegisterEvent(e *Event, current Values) {
	h.current = current
	snapshot := current.Clone()
	if i, ok := h.index[e.ID]; ok {
		h.values[i] = snapshot
		return
	}
	// Events mostly come in order, find the position after any event of the same day.
	i := sort.Search(len(h.events), func(i int) bool { return h.events[i].Date.After(e.Date) })
	if i == len(h.events) {
		h.events = append(h.events, e)
		h.values = append(h.values, snapshot)
		h.index[e.ID] = i
		return
	}
	h.events = slices.Insert(h.events, i, e)
	h.values = slices.Insert(h.values, i, snapshot)
	h.reindex()
}

func (h *History) reindex() {
	clear(h.index)
	for i, e := range h.events {
		h.index[e.ID] = i
	}
}

// ValuesForEvent returns the values registered for e.
func (h *History) ValuesForEvent(e *Event) (Values, bool) {
	i, ok := h.index[e.ID]
	if !ok {
		return Values{}, false
	}
	return h.values[i], true
}

// PreviousValuesForEvent returns the values immediately before e: the ones
// of the previous event, or the base.
func (h *History) PreviousValuesForEvent(e *Event) (Values, bool) {
	i, ok := h.index[e.ID]
	if !ok {
		return Values{}, false
	}
	if i == 0 {
		return h.base, true
	}
	return h.values[i-1], true
}

// DeltaForEvent returns the change of a caused by e.
func (h *History) DeltaForEvent(e *Event, a Attr) (decimal.Decimal, bool) {
	v, ok := h.ValuesForEvent(e)
	if !ok {
		return decimal.Zero, false
	}
	prev, _ := h.PreviousValuesForEvent(e)
	return v.Get(a).Sub(prev.Get(a)), true
}

// Events returns the events and their values in chronological order.
func (h *History) Events() iter.Seq2[*Event, Values] {
	return func(yield func(*Event, Values) bool) {
		for i, e := range h.events {
			if !yield(e, h.values[i]) {
				return
			}
		}
	}
}

// AsOf returns a new history holding the events up to cutoff included. Its
// current values are the ones of the last event kept, or the base.
func (h *History) AsOf(cutoff date.Date) *History {
	d := NewHistory(h.base)
	for i, e := range h.events {
		if e.Date.After(cutoff) {
			break
		}
		d.append(e, h.values[i])
	}
	return d
}

// Ranged returns a new history holding the events in [start, end). Events
// before start are folded into the base.
//
// The values are still cumulative since the beginning of the ledger, call
// AdjustToBase to turn them into movements during the range.
func (h *History) Ranged(start, end date.Date) *History {
	base := h.base
	first := 0
	for first < len(h.events) && h.events[first].Date.Before(start) {
		base = h.values[first]
		first++
	}
	d := NewHistory(base)
	for i := first; i < len(h.events) && h.events[i].Date.Before(end); i++ {
		d.append(h.events[i], h.values[i])
	}
	return d
}

// append adds a copy of v for e, e being after every other event.
func (h *History) append(e *Event, v Values) {
	h.index[e.ID] = len(h.events)
	h.events = append(h.events, e)
	h.values = append(h.values, v.Clone())
	h.current = v.Clone()
}

// AdjustToBase rewrites every snapshot as its difference with the base, and
// resets the base to zero.
func (h *History) AdjustToBase() {
	for i, v := range h.values {
		h.values[i] = h.base.Delta(v)
	}
	h.current = h.base.Delta(h.current)
	h.base.ResetToBase()
}
