// Package booking runs a single booking attempt against the backend
// and classifies its outcome.  One Submitter instance backs one
// booking session; instances share nothing, so the double-submit guard
// is per session rather than global.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/movie-booking-gateway/internal/inventory"
	"github.com/iliyamo/movie-booking-gateway/internal/model"
	"github.com/iliyamo/movie-booking-gateway/internal/selection"
	"github.com/iliyamo/movie-booking-gateway/internal/upstream"
)

// Backend is the slice of the upstream client a submission needs.
type Backend interface {
	CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingConfirmation, error)
}

// state is the attempt lifecycle: idle -> submitting -> back to idle.
// Confirmed, conflict and failure are terminal for the attempt, not
// for the submitter; a new attempt starts a fresh cycle.
type state int

const (
	stateIdle state = iota
	stateSubmitting
)

// Submitter executes booking attempts one at a time.  A second Submit
// while one is in flight is rejected immediately without touching the
// network, so a double-clicked confirm button can never issue two
// backend requests from the same session.
type Submitter struct {
	backend Backend
	timeout time.Duration

	mu sync.Mutex
	st state
}

// NewSubmitter builds a Submitter.  timeout bounds each backend call;
// an attempt that outlives it fails with a TIMEOUT reason so the guard
// is always released eventually.
func NewSubmitter(backend Backend, timeout time.Duration) *Submitter {
	return &Submitter{backend: backend, timeout: timeout}
}

// Submit runs one booking attempt for the given selection against the
// given inventory snapshot.
//
// Preconditions are checked before any network traffic: an empty
// selection fails with EMPTY_SELECTION, and seats the local inventory
// already knows to be unavailable produce an immediate CONFLICT — an
// optimization only, never a substitute for the backend's own check,
// since the local snapshot may be stale in either direction.
//
// A backend rejection that names the contested seats becomes a
// CONFLICT result; the caller must reconcile the inventory and strip
// those seats from the selection before any retry.  Every other
// failure leaves inventory and selection untouched and is never
// retried automatically.
func (s *Submitter) Submit(ctx context.Context, sel selection.Selection, inv *inventory.Inventory, userID uint64, paymentMethod string) model.BookingResult {
	s.mu.Lock()
	if s.st == stateSubmitting {
		s.mu.Unlock()
		return model.Failed(model.ReasonAlreadyInProgress, nil)
	}
	s.st = stateSubmitting
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.st = stateIdle
		s.mu.Unlock()
	}()

	if sel.Len() == 0 {
		return model.Failed(model.ReasonEmptySelection, nil)
	}

	seatIDs := sel.IDs()
	var stale []uint64
	for _, id := range seatIDs {
		seat, ok := inv.Seat(id)
		if !ok || seat.Status != model.SeatAvailable {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		return model.ConflictResult(stale)
	}

	req := model.BookingRequest{
		UserID:        userID,
		ShowID:        inv.ShowID(),
		SeatIDs:       seatIDs,
		PaymentMethod: paymentMethod,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conf, err := s.backend.CreateBooking(ctx, req)
	if err == nil {
		return model.Confirmed(conf.BookingNumber, conf.TotalAmount)
	}

	var conflict *upstream.SeatConflictError
	if errors.As(err, &conflict) {
		ids := conflict.SeatIDs
		if len(ids) == 0 {
			ids = resolveLabels(inv, conflict.SeatLabels)
		}
		if len(ids) > 0 {
			return model.ConflictResult(ids)
		}
		// The backend rejected the seats but nothing identifies which;
		// without ids there is nothing to reconcile, so fail generically.
		return model.Failed(model.ReasonServerError, err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.Failed(model.ReasonTimeout, err)
	case errors.Is(err, upstream.ErrUnreachable):
		return model.Failed(model.ReasonUnreachable, err)
	}
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return model.Failed(model.ReasonServerError, err)
	}
	return model.Failed(model.ReasonUnknown, err)
}

// resolveLabels maps seat labels from a backend error message back to
// show-scoped seat IDs using the local inventory.  Labels the
// inventory does not know are dropped; best effort is the contract.
func resolveLabels(inv *inventory.Inventory, labels []string) []uint64 {
	if len(labels) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}
	var ids []uint64
	for _, seat := range inv.Seats() {
		if _, ok := want[seat.Label]; ok {
			ids = append(ids, seat.ID)
		}
	}
	return ids
}

// MarkUnavailable builds the reconciliation payload for a conflict:
// the contested seats with their status overwritten to BOOKED.  The
// next full inventory fetch restores exact truth; until then BOOKED is
// the safe assumption for a seat another party just took.
func MarkUnavailable(inv *inventory.Inventory, seatIDs []uint64) []model.Seat {
	updated := make([]model.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		seat, ok := inv.Seat(id)
		if !ok {
			continue
		}
		seat.Status = model.SeatBooked
		updated = append(updated, seat)
	}
	return updated
}
