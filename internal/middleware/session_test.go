package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/utils"
)

const (
	testSecret = "middleware-test-secret"
	testCookie = "guidio_session"
)

func runSession(t *testing.T, cookie *http.Cookie) (*httptest.ResponseRecorder, uint64, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/user-info", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var gotOK bool
	h := SessionAuth(testSecret, "HS256", testCookie)(func(c echo.Context) error {
		gotID, gotOK = UserID(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, gotID, gotOK
}

func TestSessionAuthValidCookie(t *testing.T) {
	tok, err := utils.NewAuthToken(testSecret, "HS256", 42, 30)
	require.NoError(t, err)

	rec, id, ok := runSession(t, &http.Cookie{Name: testCookie, Value: tok.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
}

func TestSessionAuthMissingCookie(t *testing.T) {
	rec, _, ok := runSession(t, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok, "handler must not run without a session")
}

func TestSessionAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAuthToken(testSecret, "HS256", 42, -5)
	require.NoError(t, err)

	rec, _, ok := runSession(t, &http.Cookie{Name: testCookie, Value: tok.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), "session expired")
}

func TestSessionAuthTamperedToken(t *testing.T) {
	tok, err := utils.NewAuthToken("some-other-secret", "HS256", 42, 30)
	require.NoError(t, err)

	rec, _, ok := runSession(t, &http.Cookie{Name: testCookie, Value: tok.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

type staticResolver struct{ user *model.User }

func (r staticResolver) UserByID(_ context.Context, id uint64) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, nil
}

func runActive(t *testing.T, resolver UserResolver, userID uint64) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)

	var seen *model.User
	h := RequireActive(resolver)(func(c echo.Context) error {
		seen = SessionUser(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, seen
}

func TestRequireActivePassesVerifiedUser(t *testing.T) {
	u := &model.User{ID: 7, Email: "ada@example.com", IsActive: true}
	rec, seen := runActive(t, staticResolver{user: u}, 7)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint64(7), seen.ID)
}

func TestRequireActiveBlocksUnverified(t *testing.T) {
	u := &model.User{ID: 7, Email: "ada@example.com", IsActive: false}
	rec, seen := runActive(t, staticResolver{user: u}, 7)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireActiveUnknownUser(t *testing.T) {
	rec, seen := runActive(t, staticResolver{}, 99)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}
