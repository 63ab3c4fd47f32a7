package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strconv"  // numeric claim parsing
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context.  Tokens are
// issued by the booking backend; the gateway only verifies them with the
// shared secret and never issues tokens of its own.  Protected handlers
// read the authenticated user via UserID(c) — user identity is passed
// down explicitly from there, never read from ambient state deeper in
// the stack.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer <token>"; anything else is a 401.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 and our secret; reject any other signing
			// method so an attacker cannot downgrade to "none".
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// The backend puts the numeric user id in "sub" (some token
			// versions use "user_id").  A token without a usable id is
			// useless for booking, so reject it here rather than letting
			// handlers fail one by one.
			uid := numericClaim(claims, "sub", "user_id", "userId")
			if uid == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token has no user id"})
			}
			c.Set("user_id", uid)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id stored by JWTAuth, or 0
// when the request is unauthenticated.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// numericClaim extracts the first usable numeric claim from the given
// keys.  JSON numbers arrive as float64; string-encoded ids are parsed.
func numericClaim(claims jwt.MapClaims, keys ...string) uint64 {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case float64:
			if v > 0 {
				return uint64(v)
			}
		case string:
			if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}
