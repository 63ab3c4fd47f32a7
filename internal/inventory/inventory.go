// Package inventory caches one show's seat inventory as last reported
// by the booking backend.  The backend stays the source of truth for
// seat status; the inventory is only a snapshot that gets overwritten
// by Reconcile after a submission conflict or by a full re-fetch.
package inventory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/movie-booking-gateway/internal/model"
	"github.com/iliyamo/movie-booking-gateway/internal/utils"
)

// Inventory holds the seats of one show.  It may be read by several
// request handlers at once while a conflict reconciliation overwrites
// seat statuses, so every access goes through an RWMutex.  Seats keep
// their fetch order; grouping by category is a derived view and never
// a second source of truth.
type Inventory struct {
	mu     sync.RWMutex
	showID uint64
	seats  []model.Seat
	index  map[uint64]int // seat ID -> position in seats
}

// New builds an Inventory from a seat list.  Every seat ID must be
// unique within the show; a duplicate means the backend response is
// corrupt and is rejected rather than silently deduplicated.
func New(showID uint64, seats []model.Seat) (*Inventory, error) {
	idx := make(map[uint64]int, len(seats))
	own := make([]model.Seat, len(seats))
	copy(own, seats)
	for i, s := range own {
		if _, dup := idx[s.ID]; dup {
			return nil, fmt.Errorf("inventory: duplicate seat id %d in show %d", s.ID, showID)
		}
		idx[s.ID] = i
	}
	return &Inventory{showID: showID, seats: own, index: idx}, nil
}

// Replace swaps in a complete fresh snapshot, the wholesale counterpart
// to Reconcile's targeted overwrite.  The same duplicate-ID rule as New
// applies; on error the previous snapshot stays in place.
func (v *Inventory) Replace(seats []model.Seat) error {
	idx := make(map[uint64]int, len(seats))
	own := make([]model.Seat, len(seats))
	copy(own, seats)
	for i, s := range own {
		if _, dup := idx[s.ID]; dup {
			return fmt.Errorf("inventory: duplicate seat id %d in show %d", s.ID, v.showID)
		}
		idx[s.ID] = i
	}
	v.mu.Lock()
	v.seats = own
	v.index = idx
	v.mu.Unlock()
	return nil
}

// ShowID returns the show this inventory belongs to.
func (v *Inventory) ShowID() uint64 { return v.showID }

// Len returns the number of seats in the inventory.
func (v *Inventory) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.seats)
}

// Seat looks up a seat by its show-scoped ID.
func (v *Inventory) Seat(id uint64) (model.Seat, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	i, ok := v.index[id]
	if !ok {
		return model.Seat{}, false
	}
	return v.seats[i], true
}

// Seats returns a copy of all seats in fetch order.
func (v *Inventory) Seats() []model.Seat {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]model.Seat, len(v.seats))
	copy(out, v.seats)
	return out
}

// CategoryGroup is one tier of the seat map.
type CategoryGroup struct {
	Category model.SeatCategory `json:"category"`
	Seats    []model.Seat       `json:"seats"`
}

// ByCategory groups seats for display: groups follow the fixed category
// precedence (recliner, premium, executive, normal) and seats within a
// group follow natural label order so "A2" renders before "A10".
// Unknown categories sort after the known tiers.
func (v *Inventory) ByCategory() []CategoryGroup {
	v.mu.RLock()
	byCat := make(map[model.SeatCategory][]model.Seat)
	for _, s := range v.seats {
		byCat[s.Category] = append(byCat[s.Category], s)
	}
	v.mu.RUnlock()

	cats := make([]model.SeatCategory, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Rank() != cats[j].Rank() {
			return cats[i].Rank() < cats[j].Rank()
		}
		return cats[i] < cats[j]
	})

	groups := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		seats := byCat[c]
		sort.Slice(seats, func(i, j int) bool {
			return utils.CompareSeatLabels(seats[i].Label, seats[j].Label) < 0
		})
		groups = append(groups, CategoryGroup{Category: c, Seats: seats})
	}
	return groups
}

// Reconcile overwrites matching seats with backend-supplied truth after
// a submission conflict.  Seats absent from updated are left untouched.
// It returns the IDs that are no longer AVAILABLE so the caller can
// strip them from its selection; the caller must honor that signal
// before retrying a submission.
func (v *Inventory) Reconcile(updated []model.Seat) (removed []uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, u := range updated {
		i, ok := v.index[u.ID]
		if !ok {
			continue
		}
		v.seats[i] = u
		if u.Status != model.SeatAvailable {
			removed = append(removed, u.ID)
		}
	}
	return removed
}
