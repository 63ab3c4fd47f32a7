package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking-gateway/internal/middleware"
	"github.com/iliyamo/movie-booking-gateway/internal/model"
	"github.com/iliyamo/movie-booking-gateway/internal/queue"
	"github.com/iliyamo/movie-booking-gateway/internal/session"
	"github.com/iliyamo/movie-booking-gateway/internal/upstream"
	queue_publisher "github.com/iliyamo/movie-booking-gateway/internal/service"
)

// SessionHandler drives the seat-selection and booking-submission flow.
// A session pins one user to one show's inventory snapshot; the handler
// methods are thin — every rule about selection, pricing and submission
// lives in the session, selection and booking packages.  All methods
// require JWT authentication; the session store enforces ownership on
// top of that.
type SessionHandler struct {
	Upstream       *upstream.Client // backend API client
	Store          *session.Store   // live booking sessions
	SubmitTimeout  time.Duration    // per-attempt backend deadline
	DefaultPayment string           // payment method when the request names none
}

// NewSessionHandler constructs a SessionHandler.  Upstream and store
// must be non-nil.
func NewSessionHandler(up *upstream.Client, store *session.Store, submitTimeout time.Duration, defaultPayment string) *SessionHandler {
	if up == nil || store == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{
		Upstream:       up,
		Store:          store,
		SubmitTimeout:  submitTimeout,
		DefaultPayment: defaultPayment,
	}
}

// CreateSession handles POST /v1/shows/:id/session.  It fetches the
// show's current seat inventory and opens an empty selection for the
// authenticated user.  Returns 201 with the initial session view.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.Upstream.FetchShow(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, upstream.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return backendError(c, err)
	}
	s, err := h.Store.Open(userID, show, h.Upstream, h.SubmitTimeout)
	if err != nil {
		// duplicate seat ids in the backend response
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "invalid seat data from booking service"})
	}
	return c.JSON(http.StatusCreated, s.View())
}

// GetSession handles GET /v1/sessions/:sid and returns the seat map
// grouped by category together with the current selection and total.
func (h *SessionHandler) GetSession(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, s.View())
}

// RefreshSession handles POST /v1/sessions/:sid/refresh.  It re-fetches
// the show's inventory wholesale; selected seats that are no longer
// available are dropped and the fresh view is returned.
func (h *SessionHandler) RefreshSession(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	if err := s.Refresh(c.Request().Context(), h.Upstream); err != nil {
		if errors.Is(err, upstream.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

// ToggleSeat handles POST /v1/sessions/:sid/toggle with body
// {"seatId": N}.  Toggling an unavailable seat is not an error: the
// selection simply does not change, and the response always reflects
// the selection as it now stands.
func (h *SessionHandler) ToggleSeat(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var body struct {
		SeatID uint64 `json:"seatId"`
	}
	if err := c.Bind(&body); err != nil || body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatId is required"})
	}
	selected, total := s.Toggle(body.SeatID)
	return c.JSON(http.StatusOK, echo.Map{"selectedSeatIds": selected, "total": total})
}

// Submit handles POST /v1/sessions/:sid/submit with an optional body
// {"paymentMethod": "..."}.  Responses by outcome:
//
//	201 – confirmed; body carries bookingNumber and totalAmount.
//	409 – conflict; body names the seats that were taken, the seat map
//	      in the session is already reconciled, and the user can retry
//	      with the remaining selection.
//	400 – empty selection.
//	429 – a submission for this session is already in flight.  The
//	      flow state is untouched; a well-behaved UI never sees this.
//	502/504 – backend failure or timeout; nothing changed, the user
//	      may retry the identical selection.
//
// Retrying is always an explicit user action; the gateway never
// resubmits on its own.
func (h *SessionHandler) Submit(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	_ = c.Bind(&body) // body is optional
	payment := body.PaymentMethod
	if payment == "" {
		payment = h.DefaultPayment
	}

	labels := seatLabels(s)
	res := s.Submit(c.Request().Context(), payment)

	switch res.Outcome {
	case model.OutcomeConfirmed:
		// Best-effort event; the booking already exists in the backend.
		ev := queue.BookingConfirmedEvent{
			BookingNumber: res.BookingNumber,
			UserID:        s.UserID,
			ShowID:        s.Show.ID,
			MovieTitle:    s.Show.MovieTitle,
			TheaterName:   s.Show.TheaterName,
			ScreenName:    s.Show.ScreenName,
			StartsAt:      s.Show.StartTime.Format(time.RFC3339),
			SeatLabels:    labels,
			TotalAmount:   res.TotalAmount,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		_ = queue_publisher.PublishBookingConfirmed(c.Request().Context(), ev)
		return c.JSON(http.StatusCreated, res)
	case model.OutcomeConflict:
		return c.JSON(http.StatusConflict, echo.Map{
			"error":              "some seats are no longer available",
			"unavailableSeatIds": res.UnavailableSeatIDs,
			"view":               s.View(),
		})
	}

	switch res.Reason {
	case model.ReasonEmptySelection:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
	case model.ReasonAlreadyInProgress:
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "submission already in progress"})
	case model.ReasonTimeout:
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "booking service timed out", "reason": res.Reason})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking failed", "reason": res.Reason})
	}
}

// ClearSelection handles POST /v1/sessions/:sid/clear and empties the
// selection without closing the session.
func (h *SessionHandler) ClearSelection(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	s.ClearSelection()
	return c.JSON(http.StatusOK, s.View())
}

// CloseSession handles DELETE /v1/sessions/:sid.  Closing is always
// allowed; an in-flight submission is not cancelled client-side.
func (h *SessionHandler) CloseSession(c echo.Context) error {
	userID := middleware.UserID(c)
	h.Store.Close(c.Param("sid"), userID)
	return c.NoContent(http.StatusNoContent)
}

// session resolves the :sid path parameter against the store, scoped
// to the authenticated user.
func (h *SessionHandler) session(c echo.Context) (*session.Session, bool) {
	userID := middleware.UserID(c)
	if userID == 0 {
		return nil, false
	}
	return h.Store.Get(c.Param("sid"), userID)
}

// seatLabels resolves the currently selected seat ids to their labels,
// captured before a submit so a confirmation event can name the seats
// even though the selection is cleared on success.
func seatLabels(s *session.Session) []string {
	ids := s.SelectedIDs()
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if seat, ok := s.Inventory.Seat(id); ok {
			labels = append(labels, seat.Label)
		}
	}
	return labels
}
