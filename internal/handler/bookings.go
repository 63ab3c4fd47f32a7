package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking-gateway/internal/middleware"
	"github.com/iliyamo/movie-booking-gateway/internal/upstream"
)

// BookingsHandler proxies booking-record endpoints.  The backend owns
// every booking; the gateway only scopes requests to the authenticated
// user and forwards the backend's JSON verbatim.
type BookingsHandler struct {
	Upstream *upstream.Client // backend API client
}

// NewBookingsHandler constructs a BookingsHandler.  The client must be
// non-nil.
func NewBookingsHandler(up *upstream.Client) *BookingsHandler {
	if up == nil {
		panic("nil upstream client passed to NewBookingsHandler")
	}
	return &BookingsHandler{Upstream: up}
}

// ListMine handles GET /v1/bookings and returns the authenticated
// user's bookings as the backend reports them.
func (h *BookingsHandler) ListMine(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	raw, err := h.Upstream.UserBookings(c.Request().Context(), userID)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// Cancel handles PUT /v1/bookings/cancel/:id.  Cancellation semantics
// (refunds, seat release) are entirely the backend's; this is an
// opaque passthrough.
func (h *BookingsHandler) Cancel(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	raw, err := h.Upstream.CancelBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return backendError(c, err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}
