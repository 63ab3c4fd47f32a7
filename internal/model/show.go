package model

import "time"

// Movie is the subset of the backend's movie record that the gateway
// exposes on browse endpoints.
//
// Fields:
//  ID           – backend movie identifier.
//  Title        – display title.
//  Description  – synopsis text.
//  Language     – spoken language.
//  Genre        – genre label.
//  DurationMins – running time in minutes.
//  ReleaseDate  – release date as reported by the backend (date string).
//  PosterURL    – poster image URL, may be empty.
type Movie struct {
	ID           uint64 `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Language     string `json:"language,omitempty"`
	Genre        string `json:"genre,omitempty"`
	DurationMins int    `json:"durationMins,omitempty"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
	PosterURL    string `json:"posterUrl,omitempty"`
}

// Show is a single screening with its seat inventory snapshot.  Seats
// carry the show-scoped seat IDs used for booking submissions.
//
// Fields:
//  ID          – backend show identifier.
//  MovieTitle  – title of the movie being screened.
//  TheaterName – venue name.
//  ScreenName  – screen/hall name within the venue.
//  StartTime   – scheduled start, zero when the backend value is unparseable.
//  Seats       – seat inventory at fetch time.
type Show struct {
	ID          uint64    `json:"id"`
	MovieTitle  string    `json:"movieTitle"`
	TheaterName string    `json:"theaterName,omitempty"`
	ScreenName  string    `json:"screenName,omitempty"`
	StartTime   time.Time `json:"startTime"`
	Seats       []Seat    `json:"seats"`
}

// ShowSummary is a show without its seat list, used on listing endpoints
// where fetching full inventories would be wasteful.
type ShowSummary struct {
	ID          uint64    `json:"id"`
	MovieTitle  string    `json:"movieTitle"`
	TheaterName string    `json:"theaterName,omitempty"`
	ScreenName  string    `json:"screenName,omitempty"`
	StartTime   time.Time `json:"startTime"`
}
