package tally

import (
	"errors"
	"fmt"

	"github.com/etnz/tally/date"
)

// ErrUnknownEntity is returned when the ledger references a security or a
// portfolio the Directory does not know.
var ErrUnknownEntity = errors.New("unknown entity")

// DataError reports a ledger inconsistency: an entity declared closed that
// still shows activity after its closing date. The ledger must be corrected,
// the report cannot be produced.
type DataError struct {
	Kind     EntityKind
	ID       string
	Name     string
	ClosedOn date.Date
	On       date.Date // date of the state found active
	Values   Values
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s %q (%s) is closed on %s but still active on %s", e.Kind, e.Name, e.ID, e.ClosedOn, e.On)
}

// checkClosed returns a DataError if b is for a closed entity and is active
// in a state dated on.
func checkClosed(b *Bucket, state Values, on date.Date) error {
	c, ok := b.entity.(closer)
	if !ok {
		return nil
	}
	closed := c.ClosedOn()
	if closed.IsZero() || on.Before(closed) {
		return nil
	}
	if !b.behavior.isActive(state) {
		return nil
	}
	logger.Warn().Stringer("kind", b.entity.Kind()).Str("id", b.entity.ID()).Stringer("closed", closed).Stringer("on", on).Msg("closed entity is active")
	return &DataError{
		Kind:     b.entity.Kind(),
		ID:       b.entity.ID(),
		Name:     b.entity.Name(),
		ClosedOn: closed,
		On:       on,
		Values:   state.Clone(),
	}
}

// sliceError is returned when slicing a list that is already derived.
type sliceError struct{ lifecycle lifecycle }

func (e *sliceError) Error() string {
	return fmt.Sprintf("cannot slice a derived bucket list (%s), only a full one", e.lifecycle)
}
