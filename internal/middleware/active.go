package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/model"
)

// UserResolver loads a user record by id, returning (nil, nil) when the id is
// unknown. The auth service satisfies this.
type UserResolver interface {
	UserByID(ctx context.Context, id uint64) (*model.User, error)
}

// RequireActive is the authorization gate profile and guide routes sit
// behind: it resolves the full user record for the session established by
// SessionAuth and rejects accounts that have not completed email
// verification. The loaded record is stored under "user" for handlers.
func RequireActive(users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			user, err := users.UserByID(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
			}
			if user == nil {
				// Valid token for a deleted account.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !user.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account not verified"})
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// SessionUser returns the user record stored by RequireActive, nil when the
// middleware did not run.
func SessionUser(c echo.Context) *model.User {
	u, _ := c.Get("user").(*model.User)
	return u
}
