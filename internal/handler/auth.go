package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/guidio/guidio-api/internal/config"
	"github.com/guidio/guidio-api/internal/middleware"
	"github.com/guidio/guidio-api/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Manager *service.AuthManager
}

func NewAuthHandler(cfg config.Config, m *service.AuthManager) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Manager: m}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailReq struct {
	Email string `json:"email"`
}

// Register: create an unverified account and send the activation email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	userID, err := h.Manager.Register(ctx, baseURL(c), service.RegistrationData{
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"user_id": userID})
}

// Login: verify credentials and set the session cookie. Unverified accounts
// get a distinct failure so clients can prompt for email verification.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	user, token, err := h.Manager.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	c.SetCookie(h.sessionCookie(token, time.Duration(h.Cfg.TokenTTLMin)*time.Minute))
	return c.JSON(http.StatusOK, newUserPart(user))
}

// Logout clears the session cookie. Tokens are stateless, so there is nothing
// to revoke server-side; the cookie removal ends the session for the client.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.JSON(http.StatusOK, echo.Map{"message": "user logged out successfully"})
}

// SendVerificationEmail re-sends the activation link for an unverified
// account.
func (h *AuthHandler) SendVerificationEmail(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	if err := h.Manager.RequestVerificationEmail(ctx, baseURL(c), strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "activation email sent"})
}

// VerifyEmail consumes the token from the mailed link and activates the
// account. Expired links fail before any state change.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSec*time.Second)
	defer cancel()

	if _, err := h.Manager.ActivateViaToken(ctx, token); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "activation successful"})
}

// UserInfo returns the authenticated user's record. Sits behind the
// SessionAuth + RequireActive gate.
func (h *AuthHandler) UserInfo(c echo.Context) error {
	user := middleware.SessionUser(c)
	if user == nil {
		return writeError(c, service.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, newUserPart(user))
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1 // expire immediately
	} else {
		ck.Expires = time.Now().Add(ttl)
	}
	return ck
}
