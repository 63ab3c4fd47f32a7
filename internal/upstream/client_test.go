package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-gateway/internal/model"
)

const showJSON = `{
	"id": 5,
	"movie": {"title": "Interstellar"},
	"screen": {"name": "Audi 2", "theater": {"name": "Galaxy Multiplex"}},
	"startTime": "2026-09-01T18:30:00",
	"availableSeats": [
		{"id": 101, "seat": {"seatNumber": "R1", "seatType": "RECLINER"}, "price": 500, "status": "AVAILABLE"},
		{"id": 102, "seat": {"seatNumber": "N1", "seatType": "normal"}, "price": 150.0, "status": "BOOKED"},
		{"id": 103, "seat": {"seatNumber": "X1", "seatType": "BALCONY"}, "price": 99.6, "status": "AVAILABLE"}
	]
}`

func TestFetchShowMapsWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(showJSON))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 2*time.Second)
	show, err := c.FetchShow(context.Background(), 5)
	require.NoError(t, err)

	assert.EqualValues(t, 5, show.ID)
	assert.Equal(t, "Interstellar", show.MovieTitle)
	assert.Equal(t, "Galaxy Multiplex", show.TheaterName)
	assert.Equal(t, "Audi 2", show.ScreenName)
	assert.False(t, show.StartTime.IsZero())
	require.Len(t, show.Seats, 3)

	assert.Equal(t, model.Seat{ID: 101, Label: "R1", Category: model.CategoryRecliner, Price: 500, Status: model.SeatAvailable}, show.Seats[0])
	// lower-cased seatType normalizes; fractional price rounds
	assert.Equal(t, model.CategoryNormal, show.Seats[1].Category)
	assert.Equal(t, model.SeatBooked, show.Seats[1].Status)
	// unknown seatType falls back to NORMAL
	assert.Equal(t, model.CategoryNormal, show.Seats[2].Category)
	assert.EqualValues(t, 100, show.Seats[2].Price)
}

func TestFetchShowNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Show Not Found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 2*time.Second)
	_, err := c.FetchShow(context.Background(), 42)
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestFetchShowUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening any more

	c := New(srv.URL, "", time.Second)
	_, err := c.FetchShow(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCreateBookingSuccess(t *testing.T) {
	var got model.BookingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/bookings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"bookingNumber": "BK-7781", "totalAmount": 300, "status": "CONFIRMED"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "svc-token", 2*time.Second)
	conf, err := c.CreateBooking(context.Background(), model.BookingRequest{
		UserID: 9, ShowID: 5, SeatIDs: []uint64{101, 102}, PaymentMethod: "ONLINE",
	})
	require.NoError(t, err)
	assert.Equal(t, "BK-7781", conf.BookingNumber)
	assert.EqualValues(t, 300, conf.TotalAmount)
	assert.Equal(t, []uint64{101, 102}, got.SeatIDs)
	assert.EqualValues(t, 9, got.UserID)
}

func TestCreateBookingConflictWithSeatIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "seats already taken", "seatIds": [102, 103]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 2*time.Second)
	_, err := c.CreateBooking(context.Background(), model.BookingRequest{UserID: 1, ShowID: 5, SeatIDs: []uint64{101, 102, 103}})

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uint64{102, 103}, conflict.SeatIDs)
}

func TestCreateBookingConflictParsedFromMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Seat N1 is not available. Seat N2 is not available"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 2*time.Second)
	_, err := c.CreateBooking(context.Background(), model.BookingRequest{UserID: 1, ShowID: 5, SeatIDs: []uint64{101}})

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, conflict.SeatIDs)
	assert.Equal(t, []string{"N1", "N2"}, conflict.SeatLabels)
}

func TestCreateBookingUnidentifiableRejectionIsNotAConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "boom"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 2*time.Second)
	_, err := c.CreateBooking(context.Background(), model.BookingRequest{UserID: 1, ShowID: 5, SeatIDs: []uint64{101}})

	var conflict *SeatConflictError
	assert.False(t, errors.As(err, &conflict))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestBearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "svc-token", 2*time.Second)
	_, err := c.Movies(context.Background())
	require.NoError(t, err)
}

func TestUserBookingsPassthrough(t *testing.T) {
	body := `[{"bookingNumber":"BK-1","totalAmount":300,"status":"CONFIRMED"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/user/9", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(srv.URL, "", 2*time.Second)
	raw, err := c.UserBookings(context.Background(), 9)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
}
