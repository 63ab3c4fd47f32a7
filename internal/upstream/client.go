package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/iliyamo/movie-booking-gateway/internal/model"
)

// Client talks to the movie-booking backend's REST API.  It is safe
// for concurrent use.  A non-empty service token is attached as a
// bearer credential on every request; user identity always travels in
// request bodies, never in ambient state.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a Client for the backend at baseURL.  The timeout bounds
// every request end to end; callers may tighten it further per call
// with a context deadline.  token may be empty when the backend does
// not require service credentials.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// errorBody is the backend's error envelope.  Spring-style backends
// put the text in either "message" or "error"; seat conflicts may also
// carry the offending ids in "seatIds".
type errorBody struct {
	Message string   `json:"message"`
	ErrText string   `json:"error"`
	SeatIDs []uint64 `json:"seatIds"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.ErrText
}

// seatLabelPattern matches the backend's "Seat A12 is not available"
// validation message so conflicting seats can be recovered even when
// the error body carries no id list.
var seatLabelPattern = regexp.MustCompile(`(?i)seat\s+([A-Za-z0-9-]+)\s+is not available`)

// do issues one request and decodes a 2xx JSON response into out.  A
// non-2xx response is decoded into errorBody and returned as a
// StatusError (or a more specific sentinel mapped by the caller).
// Transport failures are classified into timeout vs unreachable.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	raw, err := c.doRaw(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// doRaw is do without response decoding; the body bytes of a 2xx
// response are returned verbatim for passthrough endpoints.
func (c *Client) doRaw(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	return nil, &statusErrorWithBody{
		StatusError: StatusError{StatusCode: resp.StatusCode, Message: eb.text()},
		body:        eb,
	}
}

// statusErrorWithBody keeps the decoded error envelope alongside the
// StatusError so CreateBooking can inspect conflict details.
type statusErrorWithBody struct {
	StatusError
	body errorBody
}

func (e *statusErrorWithBody) Unwrap() error { return &e.StatusError }

// classifyTransport turns a transport failure into either the caller's
// deadline error or ErrUnreachable.  Timeouts must stay recognizable
// so submission attempts can report them distinctly.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("backend request timed out: %w", context.DeadlineExceeded)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("backend request timed out: %w", context.DeadlineExceeded)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return fmt.Errorf("backend request timed out: %w", context.DeadlineExceeded)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// ── shows ──────────────────────────────────────────────────────────

type showSeatDTO struct {
	ID   uint64 `json:"id"`
	Seat struct {
		SeatNumber string `json:"seatNumber"`
		SeatType   string `json:"seatType"`
	} `json:"seat"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

type showDTO struct {
	ID    uint64 `json:"id"`
	Movie struct {
		Title string `json:"title"`
	} `json:"movie"`
	Screen struct {
		Name    string `json:"name"`
		Theater struct {
			Name string `json:"name"`
		} `json:"theater"`
	} `json:"screen"`
	StartTime      string        `json:"startTime"`
	AvailableSeats []showSeatDTO `json:"availableSeats"`
}

func (d showDTO) toSummary() model.ShowSummary {
	return model.ShowSummary{
		ID:          d.ID,
		MovieTitle:  d.Movie.Title,
		TheaterName: d.Screen.Theater.Name,
		ScreenName:  d.Screen.Name,
		StartTime:   parseBackendTime(d.StartTime),
	}
}

// parseBackendTime parses the backend's startTime, which may or may
// not carry a zone.  A zero time is returned on failure; browse
// responses tolerate that instead of erroring the whole page.
func parseBackendTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// mapSeat converts one wire seat into the gateway model.  Unknown
// categories fall back to NORMAL, matching how the backend prices
// untyped seats.
func mapSeat(d showSeatDTO) model.Seat {
	cat := model.SeatCategory(strings.ToUpper(d.Seat.SeatType))
	if cat.Rank() >= len(model.Categories()) {
		cat = model.CategoryNormal
	}
	return model.Seat{
		ID:       d.ID,
		Label:    d.Seat.SeatNumber,
		Category: cat,
		Price:    int64(math.Round(d.Price)),
		Status:   model.SeatStatus(strings.ToUpper(d.Status)),
	}
}

// FetchShow fetches one show with its full seat inventory.  A 404 maps
// to ErrShowNotFound; a show with an empty seat list is a valid show
// that happens to be sold out of listed seats.
func (c *Client) FetchShow(ctx context.Context, showID uint64) (model.Show, error) {
	var d showDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/shows/%d", showID), nil, &d); err != nil {
		return model.Show{}, mapNotFound(err, ErrShowNotFound)
	}
	show := model.Show{
		ID:          d.ID,
		MovieTitle:  d.Movie.Title,
		TheaterName: d.Screen.Theater.Name,
		ScreenName:  d.Screen.Name,
		StartTime:   parseBackendTime(d.StartTime),
		Seats:       make([]model.Seat, 0, len(d.AvailableSeats)),
	}
	for _, sd := range d.AvailableSeats {
		show.Seats = append(show.Seats, mapSeat(sd))
	}
	return show, nil
}

// ShowsByMovie lists shows scheduled for a movie.
func (c *Client) ShowsByMovie(ctx context.Context, movieID uint64) ([]model.ShowSummary, error) {
	var ds []showDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/shows/movie/%d", movieID), nil, &ds); err != nil {
		return nil, mapNotFound(err, ErrMovieNotFound)
	}
	out := make([]model.ShowSummary, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.toSummary())
	}
	return out, nil
}

// ── movies ─────────────────────────────────────────────────────────

// Movies lists all movies known to the backend.
func (c *Client) Movies(ctx context.Context) ([]model.Movie, error) {
	var out []model.Movie
	if err := c.do(ctx, http.MethodGet, "/movies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Movie fetches one movie by ID; unknown IDs map to ErrMovieNotFound.
func (c *Client) Movie(ctx context.Context, movieID uint64) (model.Movie, error) {
	var out model.Movie
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/%d", movieID), nil, &out); err != nil {
		return model.Movie{}, mapNotFound(err, ErrMovieNotFound)
	}
	return out, nil
}

// SearchMovies searches movies by title substring.
func (c *Client) SearchMovies(ctx context.Context, title string) ([]model.Movie, error) {
	var out []model.Movie
	path := "/movies/search?title=" + url.QueryEscape(title)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── bookings ───────────────────────────────────────────────────────

// CreateBooking submits one booking attempt.  A rejection that names
// the contested seats — via a "seatIds" list or via seat numbers in
// the validation message — is returned as a *SeatConflictError so the
// caller can reconcile and retry; any other rejection surfaces as the
// underlying error.  The client never retries: a booking is a
// payment-adjacent operation and every retry must be user-triggered.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingConfirmation, error) {
	var out struct {
		BookingNumber string  `json:"bookingNumber"`
		TotalAmount   float64 `json:"totalAmount"`
		Status        string  `json:"status"`
	}
	err := c.do(ctx, http.MethodPost, "/bookings", req, &out)
	if err == nil {
		return model.BookingConfirmation{
			BookingNumber: out.BookingNumber,
			TotalAmount:   int64(math.Round(out.TotalAmount)),
			Status:        out.Status,
		}, nil
	}
	var se *statusErrorWithBody
	if errors.As(err, &se) {
		if conflict := conflictFrom(se); conflict != nil {
			return model.BookingConfirmation{}, conflict
		}
	}
	return model.BookingConfirmation{}, err
}

// conflictFrom extracts seat-conflict details from a booking rejection.
// It returns nil when the response does not identify any seats, in
// which case the rejection is treated as a generic failure.
func conflictFrom(se *statusErrorWithBody) *SeatConflictError {
	if se.StatusCode != http.StatusConflict &&
		se.StatusCode != http.StatusBadRequest &&
		se.StatusCode != http.StatusUnprocessableEntity {
		return nil
	}
	msg := se.body.text()
	if len(se.body.SeatIDs) > 0 {
		return &SeatConflictError{SeatIDs: se.body.SeatIDs, Message: msg}
	}
	var labels []string
	for _, m := range seatLabelPattern.FindAllStringSubmatch(msg, -1) {
		labels = append(labels, m[1])
	}
	if len(labels) > 0 {
		return &SeatConflictError{SeatLabels: labels, Message: msg}
	}
	return nil
}

// UserBookings lists a user's bookings.  The backend's booking records
// are passed through verbatim; the gateway adds nothing to them.
func (c *Client) UserBookings(ctx context.Context, userID uint64) (json.RawMessage, error) {
	return c.doRaw(ctx, http.MethodGet, fmt.Sprintf("/bookings/user/%d", userID), nil)
}

// CancelBooking forwards a cancellation.  Cancellation semantics are
// owned entirely by the backend; this is an opaque passthrough.
func (c *Client) CancelBooking(ctx context.Context, bookingID uint64) (json.RawMessage, error) {
	raw, err := c.doRaw(ctx, http.MethodPut, fmt.Sprintf("/bookings/cancel/%d", bookingID), nil)
	if err != nil {
		return nil, mapNotFound(err, ErrBookingNotFound)
	}
	return raw, nil
}

// mapNotFound rewrites a 404 StatusError into the given sentinel and
// leaves every other error alone.
func mapNotFound(err error, sentinel error) error {
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return sentinel
	}
	return err
}
