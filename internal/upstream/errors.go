// Package upstream is the HTTP client for the movie-booking backend.
// It is the gateway's only data source: there is no local database and
// everything the gateway serves is fetched from, or submitted to, the
// backend.
package upstream

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the client.  Handlers compare with
// errors.Is to choose a response status.
var (
	// ErrShowNotFound is returned when the backend has no show (or no
	// seat data) for the requested ID.
	ErrShowNotFound = errors.New("show not found")
	// ErrBookingNotFound is returned when a booking lookup or cancel
	// names an unknown booking.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrMovieNotFound is returned for unknown movie IDs.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrUnreachable wraps transport-level failures: the backend could
	// not be reached at all, as opposed to answering with an error.
	ErrUnreachable = errors.New("booking backend unreachable")
)

// SeatConflictError reports that a booking was rejected because some of
// the requested seats were taken by another party first.  SeatIDs holds
// the offending show-scoped seat IDs when the backend names them
// directly; SeatLabels holds seat numbers recovered from the error
// message when it does not.  Either list may be empty, never both: a
// rejection with no identifiable seats surfaces as a plain error.
type SeatConflictError struct {
	SeatIDs    []uint64
	SeatLabels []string
	Message    string
}

func (e *SeatConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("seat conflict: %s", e.Message)
	}
	if len(e.SeatLabels) > 0 {
		return fmt.Sprintf("seat conflict: seats %s are no longer available", strings.Join(e.SeatLabels, ", "))
	}
	return fmt.Sprintf("seat conflict: %d seat(s) no longer available", len(e.SeatIDs))
}

// StatusError is a non-2xx backend response that maps to no more
// specific error.  It keeps the status and the backend's message for
// logging and for the generic failure path.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}
