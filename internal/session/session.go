// Package session holds the in-progress booking flows of the gateway.
// A session is the per-user glue around one show's inventory snapshot,
// the user's current seat selection and the submitter that executes
// booking attempts.  Sessions are ephemeral: they live in memory,
// expire on a TTL and are gone on restart — the backend holds every
// durable record.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-booking-gateway/internal/booking"
	"github.com/iliyamo/movie-booking-gateway/internal/inventory"
	"github.com/iliyamo/movie-booking-gateway/internal/model"
	"github.com/iliyamo/movie-booking-gateway/internal/selection"
)

// Session is one user's booking flow for one show.  All selection
// reads and writes go through the session mutex; the inventory has its
// own lock because reconciliation and seat-map reads may also come
// from other request handlers.
type Session struct {
	ID        string
	UserID    uint64
	Show      model.ShowSummary
	Inventory *inventory.Inventory

	mu        sync.Mutex
	sel       selection.Selection
	submitter *booking.Submitter
	lastSeen  time.Time
}

// View is a read snapshot of a session for rendering: the seat map
// grouped by category, the selected seat IDs and the current total.
type View struct {
	SessionID string                    `json:"sessionId"`
	ShowID    uint64                    `json:"showId"`
	Groups    []inventory.CategoryGroup `json:"seatsByCategory"`
	Selected  []uint64                  `json:"selectedSeatIds"`
	Total     int64                     `json:"total"`
}

// View renders the current state of the session.
func (s *Session) View() View {
	s.mu.Lock()
	sel := s.sel
	s.mu.Unlock()
	return View{
		SessionID: s.ID,
		ShowID:    s.Inventory.ShowID(),
		Groups:    s.Inventory.ByCategory(),
		Selected:  sel.IDs(),
		Total:     selection.Total(sel, s.Inventory),
	}
}

// Toggle flips one seat and returns the updated selection and total.
// The selection layer enforces the availability rule; a toggle on an
// unavailable seat simply leaves the selection as it was.
func (s *Session) Toggle(seatID uint64) (selected []uint64, total int64) {
	s.mu.Lock()
	s.sel = s.sel.Toggle(seatID, s.Inventory)
	sel := s.sel
	s.mu.Unlock()
	return sel.IDs(), selection.Total(sel, s.Inventory)
}

// ClearSelection empties the selection, used when the user abandons
// the flow without closing the session.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.sel = s.sel.Clear()
	s.mu.Unlock()
}

// SelectedIDs returns the current selection in pick order.
func (s *Session) SelectedIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.IDs()
}

// Submit runs one booking attempt and applies the caller contract for
// its outcome:
//
//  CONFIRMED – the selection is cleared; the attempt is over.
//  CONFLICT  – the contested seats are reconciled into the inventory
//              as no longer available and stripped from the selection,
//              so the user can immediately retry with what remains.
//  FAILED    – nothing changes; the user may retry the same selection.
//
// The selection snapshot is taken under the session lock but the
// backend call runs outside it, so a slow backend never blocks seat-map
// reads.  The submitter's own guard rejects overlapping attempts.
func (s *Session) Submit(ctx context.Context, paymentMethod string) model.BookingResult {
	s.mu.Lock()
	sel := s.sel
	s.mu.Unlock()

	res := s.submitter.Submit(ctx, sel, s.Inventory, s.UserID, paymentMethod)

	switch res.Outcome {
	case model.OutcomeConfirmed:
		s.mu.Lock()
		s.sel = s.sel.Clear()
		s.mu.Unlock()
	case model.OutcomeConflict:
		updated := booking.MarkUnavailable(s.Inventory, res.UnavailableSeatIDs)
		removed := s.Inventory.Reconcile(updated)
		s.mu.Lock()
		s.sel = s.sel.RemoveIDs(removed)
		s.mu.Unlock()
	}
	return res
}

// ShowFetcher fetches a show with its seat list; implemented by the
// upstream client.
type ShowFetcher interface {
	FetchShow(ctx context.Context, showID uint64) (model.Show, error)
}

// Refresh re-fetches the show and replaces the inventory snapshot
// wholesale.  Selected seats that are no longer AVAILABLE in the fresh
// snapshot are dropped from the selection, keeping the subset-of-
// available invariant intact across the refresh.
func (s *Session) Refresh(ctx context.Context, src ShowFetcher) error {
	show, err := src.FetchShow(ctx, s.Inventory.ShowID())
	if err != nil {
		return err
	}
	if err := s.Inventory.Replace(show.Seats); err != nil {
		return err
	}
	s.mu.Lock()
	var gone []uint64
	for _, id := range s.sel.IDs() {
		seat, ok := s.Inventory.Seat(id)
		if !ok || seat.Status != model.SeatAvailable {
			gone = append(gone, id)
		}
	}
	s.sel = s.sel.RemoveIDs(gone)
	s.mu.Unlock()
	return nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store keeps live sessions keyed by ID and expires the ones nobody
// has touched within the TTL.
type Store struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore builds a Store and starts its expiry janitor.  Stop must be
// called on shutdown to end the janitor goroutine.
func NewStore(ttl time.Duration) *Store {
	st := &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go st.janitor()
	return st
}

// Open creates a session for a user around a freshly fetched show.
// The submitter is created here so its double-submit guard is scoped
// to exactly this session.
func (st *Store) Open(userID uint64, show model.Show, backend booking.Backend, submitTimeout time.Duration) (*Session, error) {
	inv, err := inventory.New(show.ID, show.Seats)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Show: model.ShowSummary{
			ID:          show.ID,
			MovieTitle:  show.MovieTitle,
			TheaterName: show.TheaterName,
			ScreenName:  show.ScreenName,
			StartTime:   show.StartTime,
		},
		Inventory: inv,
		sel:       selection.New(),
		submitter: booking.NewSubmitter(backend, submitTimeout),
		lastSeen:  time.Now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s, nil
}

// Get returns the session with the given ID if it exists and belongs
// to userID.  Ownership is checked here so handlers cannot forget it.
func (st *Store) Get(id string, userID uint64) (*Session, bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok || s.UserID != userID {
		return nil, false
	}
	s.touch(time.Now())
	return s, true
}

// Close removes a session.  Closing an unknown or foreign session is
// a no-op; an in-flight submission is not cancelled, it just has no
// session to report back to.
func (st *Store) Close(id string, userID uint64) {
	st.mu.Lock()
	if s, ok := st.sessions[id]; ok && s.UserID == userID {
		delete(st.sessions, id)
	}
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Stop ends the janitor goroutine.
func (st *Store) Stop() {
	st.stopOnce.Do(func() { close(st.stop) })
}

// janitor drops sessions whose last activity is older than the TTL.
func (st *Store) janitor() {
	interval := st.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-st.stop:
			return
		case now := <-tick.C:
			st.mu.Lock()
			for id, s := range st.sessions {
				if now.Sub(s.seen()) > st.ttl {
					delete(st.sessions, id)
				}
			}
			st.mu.Unlock()
		}
	}
}
