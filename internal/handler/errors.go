package handler

// errors.go is the single translation point between domain failures and HTTP
// statuses. Handlers never map errors ad hoc; they funnel everything through
// writeError so each error kind has exactly one status across the API.

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/service"
	"github.com/guidio/guidio-api/internal/utils"
)

func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user does not exist"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrAccountNotVerified):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account not verified"})
	case errors.Is(err, service.ErrAccountAlreadyVerified):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account already verified"})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, utils.ErrTokenExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
	case errors.Is(err, utils.ErrTokenInvalid):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	// Mail transport or store connectivity problems land here: no retry,
	// surface as a generic server error.
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
