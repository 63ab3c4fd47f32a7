package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-booking-gateway/internal/inventory"
	"github.com/iliyamo/movie-booking-gateway/internal/model"
	"github.com/iliyamo/movie-booking-gateway/internal/selection"
	"github.com/iliyamo/movie-booking-gateway/internal/upstream"
)

func threeNormalSeats(t *testing.T) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.New(5, []model.Seat{
		{ID: 1, Label: "N1", Category: model.CategoryNormal, Price: 150, Status: model.SeatAvailable},
		{ID: 2, Label: "N2", Category: model.CategoryNormal, Price: 150, Status: model.SeatAvailable},
		{ID: 3, Label: "N3", Category: model.CategoryNormal, Price: 150, Status: model.SeatAvailable},
	})
	require.NoError(t, err)
	return inv
}

func backendClient(srv *httptest.Server) *upstream.Client {
	return upstream.New(srv.URL, "", 2*time.Second)
}

func TestSubmitHappyPath(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"bookingNumber": "X", "totalAmount": 300, "status": "CONFIRMED"}`))
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv).Toggle(2, inv)
	require.EqualValues(t, 300, selection.Total(sel, inv))

	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeConfirmed, res.Outcome)
	assert.Equal(t, "X", res.BookingNumber)
	assert.EqualValues(t, 300, res.TotalAmount)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSubmitEmptySelectionNeverTouchesNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), selection.New(), inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeFailed, res.Outcome)
	assert.Equal(t, model.ReasonEmptySelection, res.Reason)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestSubmitGuardRejectsSecondAttemptInFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release // hold the first attempt open
		_, _ = w.Write([]byte(`{"bookingNumber": "X", "totalAmount": 150, "status": "CONFIRMED"}`))
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv)
	sub := NewSubmitter(backendClient(srv), 5*time.Second)

	var wg sync.WaitGroup
	wg.Add(1)
	var first model.BookingResult
	go func() {
		defer wg.Done()
		first = sub.Submit(context.Background(), sel, inv, 9, "ONLINE")
	}()

	// Wait until the first attempt is inside the backend call.
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	second := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")
	assert.Equal(t, model.OutcomeFailed, second.Outcome)
	assert.Equal(t, model.ReasonAlreadyInProgress, second.Reason)

	close(release)
	wg.Wait()
	assert.Equal(t, model.OutcomeConfirmed, first.Outcome)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "guard must prevent a second network request")

	// The guard is released after the attempt: a fresh submit goes through.
	third := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")
	assert.Equal(t, model.OutcomeConfirmed, third.Outcome)
}

func TestSubmitConflictFromBackendSeatIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "seats taken", "seatIds": [2]}`))
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv).Toggle(2, inv)
	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeConflict, res.Outcome)
	assert.Equal(t, []uint64{2}, res.UnavailableSeatIDs)
}

func TestSubmitConflictResolvesSeatLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Seat N2 is not available"}`))
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv).Toggle(2, inv)
	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeConflict, res.Outcome)
	assert.Equal(t, []uint64{2}, res.UnavailableSeatIDs)
}

func TestSubmitPrecheckConflictSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv).Toggle(2, inv)

	// Seat 2 is taken between selection and submit.
	inv.Reconcile([]model.Seat{{ID: 2, Label: "N2", Category: model.CategoryNormal, Price: 150, Status: model.SeatLocked}})

	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeConflict, res.Outcome)
	assert.Equal(t, []uint64{2}, res.UnavailableSeatIDs)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
}

func TestSubmitTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv)
	sub := NewSubmitter(backendClient(srv), 50*time.Millisecond)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeFailed, res.Outcome)
	assert.Equal(t, model.ReasonTimeout, res.Reason)
}

func TestSubmitServerErrorLeavesSelectionRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "boom"}`))
	}))
	defer srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv)
	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeFailed, res.Outcome)
	assert.Equal(t, model.ReasonServerError, res.Reason)
	// nothing was reconciled: the seat is still selectable and AVAILABLE
	s, _ := inv.Seat(1)
	assert.Equal(t, model.SeatAvailable, s.Status)
}

func TestSubmitUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	inv := threeNormalSeats(t)
	sel := selection.New().Toggle(1, inv)
	sub := NewSubmitter(backendClient(srv), time.Second)
	res := sub.Submit(context.Background(), sel, inv, 9, "ONLINE")

	assert.Equal(t, model.OutcomeFailed, res.Outcome)
	assert.Equal(t, model.ReasonUnreachable, res.Reason)
}

func TestMarkUnavailable(t *testing.T) {
	inv := threeNormalSeats(t)
	updated := MarkUnavailable(inv, []uint64{2, 999})
	require.Len(t, updated, 1)
	assert.EqualValues(t, 2, updated[0].ID)
	assert.Equal(t, model.SeatBooked, updated[0].Status)
}
