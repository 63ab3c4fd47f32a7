// Package selection tracks the seats a user has picked for one show.
// A Selection is a pure value: mutating operations return a new value
// and the receiver is never changed, which keeps the selection rules
// testable without any network or timer behavior.
package selection

import (
	"github.com/iliyamo/movie-booking-gateway/internal/inventory"
	"github.com/iliyamo/movie-booking-gateway/internal/model"
)

// Selection is an ordered set of show-scoped seat IDs.  The order is
// the order seats were picked in, which is also the order sent in a
// booking request.  The zero value is an empty selection.
type Selection struct {
	ids   map[uint64]struct{}
	order []uint64
}

// New returns an empty selection.
func New() Selection {
	return Selection{}
}

// Has reports whether the seat ID is currently selected.
func (s Selection) Has(id uint64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected seats.
func (s Selection) Len() int { return len(s.order) }

// IDs returns the selected seat IDs in pick order.
func (s Selection) IDs() []uint64 {
	out := make([]uint64, len(s.order))
	copy(out, s.order)
	return out
}

// Toggle flips one seat in or out of the selection.  A seat enters the
// selection only while the inventory says it is AVAILABLE; toggling a
// selected seat always removes it; toggling an unavailable, unselected
// seat is a no-op.  The UI disables controls for unavailable seats, but
// the rule is enforced here regardless since the inventory may have
// changed underneath the UI.
func (s Selection) Toggle(id uint64, inv *inventory.Inventory) Selection {
	if s.Has(id) {
		return s.without(map[uint64]struct{}{id: {}})
	}
	seat, ok := inv.Seat(id)
	if !ok || seat.Status != model.SeatAvailable {
		return s
	}
	next := Selection{
		ids:   make(map[uint64]struct{}, len(s.order)+1),
		order: make([]uint64, 0, len(s.order)+1),
	}
	for _, v := range s.order {
		next.ids[v] = struct{}{}
		next.order = append(next.order, v)
	}
	next.ids[id] = struct{}{}
	next.order = append(next.order, id)
	return next
}

// RemoveIDs drops the given seat IDs from the selection.  IDs that are
// not selected are ignored; removing from an empty selection is fine.
// This is the reconciliation hook used after a submission conflict.
func (s Selection) RemoveIDs(ids []uint64) Selection {
	if len(ids) == 0 || len(s.order) == 0 {
		return s
	}
	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return s.without(drop)
}

// Clear empties the selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// without rebuilds the selection excluding the given IDs, preserving
// pick order for the rest.
func (s Selection) without(drop map[uint64]struct{}) Selection {
	next := Selection{
		ids:   make(map[uint64]struct{}, len(s.order)),
		order: make([]uint64, 0, len(s.order)),
	}
	for _, v := range s.order {
		if _, gone := drop[v]; gone {
			continue
		}
		next.ids[v] = struct{}{}
		next.order = append(next.order, v)
	}
	return next
}

// Total sums the price of every selected seat as priced by the
// inventory.  IDs the inventory no longer knows contribute zero rather
// than failing; a reconciliation may race with a price recalculation
// and a stale ID is not an error here.
func Total(s Selection, inv *inventory.Inventory) int64 {
	var total int64
	for _, id := range s.order {
		if seat, ok := inv.Seat(id); ok {
			total += seat.Price
		}
	}
	return total
}
