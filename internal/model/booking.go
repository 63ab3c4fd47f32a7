package model

// BookingRequest is the immutable snapshot sent to the backend for one
// submission attempt.  It is built once per attempt and never mutated;
// a retry after a conflict builds a fresh request from the reconciled
// selection.
//
// Fields:
//  UserID        – authenticated user performing the booking.
//  ShowID        – show whose seats are being booked.
//  SeatIDs       – show-scoped seat IDs in selection order.
//  PaymentMethod – payment method label forwarded to the backend.
type BookingRequest struct {
	UserID        uint64   `json:"userId"`
	ShowID        uint64   `json:"showId"`
	SeatIDs       []uint64 `json:"seatIds"`
	PaymentMethod string   `json:"paymentMethod"`
}

// BookingConfirmation is the backend's successful booking response.
type BookingConfirmation struct {
	BookingNumber string `json:"bookingNumber"`
	TotalAmount   int64  `json:"totalAmount"`
	Status        string `json:"status"`
}

// BookingOutcome classifies the result of one submission attempt.
type BookingOutcome string

const (
	OutcomeConfirmed BookingOutcome = "CONFIRMED" // booking created, terminal
	OutcomeConflict  BookingOutcome = "CONFLICT"  // some seats were taken; reconcile then retry
	OutcomeFailed    BookingOutcome = "FAILED"    // attempt failed, selection untouched
)

// FailReason narrows a FAILED outcome.  ReasonAlreadyInProgress signals
// a duplicate submit while one is in flight; it indicates a UI bug
// (double-click) rather than a user-facing condition.
type FailReason string

const (
	ReasonEmptySelection    FailReason = "EMPTY_SELECTION"
	ReasonAlreadyInProgress FailReason = "ALREADY_IN_PROGRESS"
	ReasonTimeout           FailReason = "TIMEOUT"
	ReasonUnreachable       FailReason = "UNREACHABLE"
	ReasonServerError       FailReason = "SERVER_ERROR"
	ReasonUnknown           FailReason = "UNKNOWN"
)

// BookingResult is the outcome of a single submission attempt.  Exactly
// one of the outcome-specific field groups is meaningful:
//
//  CONFIRMED – BookingNumber and TotalAmount are set.
//  CONFLICT  – UnavailableSeatIDs names the seats another party took.
//  FAILED    – Reason is set; Err carries the underlying cause, if any.
//
// Results are not persisted by the gateway; the authoritative booking
// record lives in the backend.
type BookingResult struct {
	Outcome            BookingOutcome `json:"outcome"`
	BookingNumber      string         `json:"bookingNumber,omitempty"`
	TotalAmount        int64          `json:"totalAmount,omitempty"`
	UnavailableSeatIDs []uint64       `json:"unavailableSeatIds,omitempty"`
	Reason             FailReason     `json:"reason,omitempty"`
	Err                error          `json:"-"`
}

// Confirmed builds a CONFIRMED result.
func Confirmed(bookingNumber string, totalAmount int64) BookingResult {
	return BookingResult{Outcome: OutcomeConfirmed, BookingNumber: bookingNumber, TotalAmount: totalAmount}
}

// ConflictResult builds a CONFLICT result naming the contested seats.
func ConflictResult(seatIDs []uint64) BookingResult {
	return BookingResult{Outcome: OutcomeConflict, UnavailableSeatIDs: seatIDs}
}

// Failed builds a FAILED result with a reason and optional cause.
func Failed(reason FailReason, err error) BookingResult {
	return BookingResult{Outcome: OutcomeFailed, Reason: reason, Err: err}
}
