// Package handler exposes the gateway's HTTP handlers.  This file
// defines the public browse endpoints: movie listings, movie search
// and show listings proxied from the booking backend.  These routes
// require no authentication and sit behind the Redis response cache,
// so repeated browsing does not hammer the backend.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-booking-gateway/internal/upstream"
)

// BrowseHandler serves unauthenticated browse traffic.  Everything it
// returns comes straight from the backend, mapped into the gateway's
// response shapes.
type BrowseHandler struct {
	Upstream *upstream.Client // backend API client
}

// NewBrowseHandler constructs a BrowseHandler.  The client must be non-nil.
func NewBrowseHandler(up *upstream.Client) *BrowseHandler {
	if up == nil {
		panic("nil upstream client passed to NewBrowseHandler")
	}
	return &BrowseHandler{Upstream: up}
}

// GetMovies handles GET /v1/movies.  Response JSON contains an "items"
// array of movies.
func (h *BrowseHandler) GetMovies(c echo.Context) error {
	movies, err := h.Upstream.Movies(c.Request().Context())
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// GetMovie handles GET /v1/movies/:id.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	movie, err := h.Upstream.Movie(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// SearchMovies handles GET /v1/movies/search?title=...  An empty title
// is rejected rather than proxied as a full listing.
func (h *BrowseHandler) SearchMovies(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	movies, err := h.Upstream.SearchMovies(c.Request().Context(), title)
	if err != nil {
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// GetShowsByMovie handles GET /v1/movies/:id/shows and lists the shows
// scheduled for one movie, without seat inventories.
func (h *BrowseHandler) GetShowsByMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	shows, err := h.Upstream.ShowsByMovie(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// GetShow handles GET /v1/shows/:id and returns the show detail with
// its current seat inventory.  This endpoint is deliberately uncached:
// seat status staleness directly translates into doomed submissions.
func (h *BrowseHandler) GetShow(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.Upstream.FetchShow(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, upstream.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return backendError(c, err)
	}
	return c.JSON(http.StatusOK, show)
}

// backendError maps upstream failures to a response.  An unreachable
// backend is reported as 502 so callers can distinguish "the gateway
// is broken" from "the thing behind it is down"; anything else is a
// plain 502 with the backend's status hidden from the client.
func backendError(c echo.Context, err error) error {
	if errors.Is(err, upstream.ErrUnreachable) {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking service unreachable"})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking service error"})
}
