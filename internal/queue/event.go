// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after the backend confirms a
// booking submitted through the gateway.  It contains enough
// information for downstream consumers to log, notify, or trigger
// analytics without calling the backend again.
type BookingConfirmedEvent struct {
	BookingNumber string   `json:"booking_number"`
	UserID        uint64   `json:"user_id"`
	ShowID        uint64   `json:"show_id"`
	MovieTitle    string   `json:"movie_title"`
	TheaterName   string   `json:"theater_name,omitempty"`
	ScreenName    string   `json:"screen_name,omitempty"`
	StartsAt      string   `json:"starts_at,omitempty"`
	SeatLabels    []string `json:"seats"`
	TotalAmount   int64    `json:"total_amount"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
