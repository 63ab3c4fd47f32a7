package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-booking-gateway/internal/config"     // Internal config loader
	"github.com/iliyamo/movie-booking-gateway/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-booking-gateway/internal/middleware" // Cache and rate-limit middleware
	"github.com/iliyamo/movie-booking-gateway/internal/queue"      // Booking event consumer
	"github.com/iliyamo/movie-booking-gateway/internal/router"     // Route registration
	"github.com/iliyamo/movie-booking-gateway/internal/session"    // Booking session store
	"github.com/iliyamo/movie-booking-gateway/internal/upstream"   // Booking backend client
)

func main() {
	// Load .env if present; real deployments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}
	cfg := config.Load() // Load environment config

	// The upstream client is the gateway's only data source.
	backend := upstream.New(cfg.BackendBaseURL, cfg.BackendToken, cfg.BackendTimeout)

	// Booking sessions live in memory and expire when idle.
	store := session.NewStore(cfg.SessionTTL)
	defer store.Stop()

	// Redis is optional: without it the gateway runs with caching and
	// rate limiting disabled rather than refusing to start.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Consume booking.confirmed events in the background; the consumer
	// reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(rateMW)   // Rate limit everything, keyed by ip/user/route

	router.RegisterRoutes(e) // Health check
	router.RegisterBrowse(e, handler.NewBrowseHandler(backend), cacheMW)
	router.RegisterBooking(e,
		handler.NewSessionHandler(backend, store, cfg.BackendTimeout, cfg.PaymentMethod),
		handler.NewBookingsHandler(backend),
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
