package router // package router defines how HTTP routes are registered for the gateway

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movie-booking-gateway/internal/handler"    // handlers implementing the gateway endpoints
	"github.com/iliyamo/movie-booking-gateway/internal/middleware" // JWT authentication middleware
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers and monitoring to verify the gateway
// is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBrowse registers the public browse endpoints.  The provided
// middleware (response cache, rate limiter) wraps the listing routes;
// the show-detail route carries live seat status and is registered
// outside the cache on purpose — a cached seat map invites doomed
// submissions.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, cached ...echo.MiddlewareFunc) {
	g := e.Group("/v1", cached...)
	// Movie catalogue; safe to cache, it changes rarely.
	g.GET("/movies", b.GetMovies)
	g.GET("/movies/search", b.SearchMovies)
	g.GET("/movies/:id", b.GetMovie)
	g.GET("/movies/:id/shows", b.GetShowsByMovie)
	// Seat status must stay fresh: no cache middleware here.
	e.GET("/v1/shows/:id", b.GetShow)
}

// RegisterBooking registers the authenticated booking flow: session
// lifecycle, seat toggling, submission and the user's booking records.
// All routes verify a bearer token issued by the backend; the session
// store additionally checks session ownership.
func RegisterBooking(e *echo.Echo, s *handler.SessionHandler, b *handler.BookingsHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(extra...)

	// Booking-session flow: open against a show, inspect, mutate, submit.
	g.POST("/shows/:id/session", s.CreateSession)
	g.GET("/sessions/:sid", s.GetSession)
	g.POST("/sessions/:sid/refresh", s.RefreshSession)
	g.POST("/sessions/:sid/toggle", s.ToggleSeat)
	g.POST("/sessions/:sid/clear", s.ClearSelection)
	g.POST("/sessions/:sid/submit", s.Submit)
	g.DELETE("/sessions/:sid", s.CloseSession)

	// Booking records, proxied from the backend.
	g.GET("/bookings", b.ListMine)
	g.PUT("/bookings/cancel/:id", b.Cancel)
}
