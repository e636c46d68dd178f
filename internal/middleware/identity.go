package middleware

// identity.go defines helpers shared across middleware files for reading the
// authenticated identity that SessionAuth stored in the request context.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's id from the context, as stored by
// SessionAuth. ok is false for unauthenticated requests.
func UserID(c echo.Context) (uint64, bool) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, true
	}
	return 0, false
}

// identityKey renders the identity for rate-limit bucket keys. Requests
// without a session share the "anon" bucket (per-IP strategies still split
// them).
func identityKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
