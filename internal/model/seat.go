package model

// SeatStatus is the availability state of a seat within one show.  The
// values mirror the wire values used by the booking backend, which is
// the sole authority for seat status: the gateway never invents a
// status on its own, it only caches what the backend last reported.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE" // seat may be selected and booked
	SeatBooked    SeatStatus = "BOOKED"    // seat is sold
	SeatLocked    SeatStatus = "LOCKED"    // seat is held by an in-flight booking
)

// SeatCategory is the pricing/comfort tier of a seat.  Categories are
// ordered by a fixed display precedence (recliner first, normal last)
// which Rank exposes for stable grouping.
type SeatCategory string

const (
	CategoryRecliner  SeatCategory = "RECLINER"
	CategoryPremium   SeatCategory = "PREMIUM"
	CategoryExecutive SeatCategory = "EXECUTIVE"
	CategoryNormal    SeatCategory = "NORMAL"
)

// categoryRank maps each category to its display precedence.  Unknown
// categories rank after NORMAL so they never disappear from a seat map.
var categoryRank = map[SeatCategory]int{
	CategoryRecliner:  0,
	CategoryPremium:   1,
	CategoryExecutive: 2,
	CategoryNormal:    3,
}

// Rank returns the display precedence of the category; lower sorts first.
func (c SeatCategory) Rank() int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return len(categoryRank)
}

// Categories lists all known categories in display precedence order.
func Categories() []SeatCategory {
	return []SeatCategory{CategoryRecliner, CategoryPremium, CategoryExecutive, CategoryNormal}
}

// Seat is one seat of one show's inventory as last reported by the
// backend.  The ID is scoped to a single show: the same physical seat
// has a different ID in every show it appears in.
//
// Fields:
//  ID       – show-scoped seat identifier, the handle used in bookings.
//  Label    – human readable seat number, e.g. "A12".
//  Category – pricing tier; determines Price.
//  Price    – price in whole currency units for this show.
//  Status   – backend-authoritative availability.
type Seat struct {
	ID       uint64       `json:"id"`
	Label    string       `json:"label"`
	Category SeatCategory `json:"category"`
	Price    int64        `json:"price"`
	Status   SeatStatus   `json:"status"`
}
