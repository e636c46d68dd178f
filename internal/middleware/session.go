package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/utils"
)

// SessionAuth returns an Echo middleware that validates the signed session
// token carried in the configured cookie and injects the token's subject into
// the request context. The secret and algorithm must match the ones used when
// issuing tokens. Protected routes wrap with this middleware so handlers can
// read the caller via middleware.UserID(c).
func SessionAuth(secret, algorithm, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
			}

			claims, err := utils.DecodeAuthToken(secret, algorithm, cookie.Value)
			if err != nil {
				if err == utils.ErrTokenExpired {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}

			userID, err := utils.DecodeSubject(claims.Subject)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}

			// Downstream middleware and handlers read these via c.Get.
			c.Set("user_id", userID)
			c.Set("session_token", cookie.Value)
			return next(c)
		}
	}
}
