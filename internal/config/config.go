package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses duration-valued variables
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The gateway keeps no database of its own,
// so the backend base URL takes the place a DSN would normally occupy.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	BackendBaseURL string        // base URL of the movie-booking backend API
	BackendToken   string        // optional service bearer token for backend calls
	BackendTimeout time.Duration // per-request timeout for backend calls
	JWTSecret      string        // secret used to verify access tokens
	SessionTTL     time.Duration // idle lifetime of a booking session
	PaymentMethod  string        // default payment method forwarded on submissions
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to defaults suitable for local development.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),                            // environment (dev/test/prod)
		Port:           must("APP_PORT"),                           // port to bind the HTTP server
		BackendBaseURL: must("BACKEND_BASE_URL"),                   // e.g. http://localhost:8080/api
		BackendToken:   os.Getenv("BACKEND_TOKEN"),                 // empty allowed
		BackendTimeout: envDur("BACKEND_TIMEOUT", 10*time.Second),  // bounded; submissions must not hang
		JWTSecret:      must("JWT_SECRET"),                         // must match the backend's signing secret
		SessionTTL:     envDur("SESSION_TTL", 15*time.Minute),      // idle booking sessions expire after this
		PaymentMethod:  envStr("DEFAULT_PAYMENT_METHOD", "ONLINE"), // used when a submit names no method
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
