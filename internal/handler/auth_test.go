package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/guidio/guidio-api/internal/config"
	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/service"
)

// memUserStore backs the auth service in handler tests; same (nil, nil)
// convention as the real repository.
type memUserStore struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newMemUserStore() *memUserStore { return &memUserStore{users: map[uint64]*model.User{}} }

func (s *memUserStore) Create(_ context.Context, email, firstName, lastName, passwordHash string) (uint64, error) {
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = &model.User{
		ID: s.nextID, Email: email, FirstName: firstName, LastName: lastName,
		PasswordHash: passwordHash, CreatedAt: time.Now().UTC(),
	}
	return s.nextID, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *memUserStore) Activate(_ context.Context, id uint64) error {
	if u, ok := s.users[id]; ok {
		u.IsActive = true
	}
	return nil
}

type memDetailStore struct{ created []uint64 }

func (d *memDetailStore) CreateEmpty(_ context.Context, userID uint64) error {
	d.created = append(d.created, userID)
	return nil
}

type memMailer struct{ urls []string }

func (m *memMailer) SendActivation(_, _ string, url string, _ time.Time) error {
	m.urls = append(m.urls, url)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:     "handler-test-secret",
		JWTAlgorithm:  "HS256",
		TokenTTLMin:   30,
		BcryptCost:    bcrypt.MinCost,
		SessionCookie: "guidio_session",
	}
}

func newTestHandler() (*AuthHandler, *memUserStore, *memMailer) {
	cfg := testConfig()
	store := newMemUserStore()
	mailer := &memMailer{}
	svc := service.NewAuthService(store, mailer, service.TokenConfig{
		Secret:     cfg.JWTSecret,
		Algorithm:  cfg.JWTAlgorithm,
		TTLMinutes: cfg.TokenTTLMin,
	}, cfg.BcryptCost)
	manager := service.NewAuthManager(svc, &memDetailStore{}, nil)
	return NewAuthHandler(cfg, manager), store, mailer
}

func doJSON(h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func registerBody(email string) string {
	return `{"email":"` + email + `","first_name":"Ada","last_name":"Lovelace","password":"password123"}`
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "guidio_session" {
			return ck
		}
	}
	t.Fatal("no guidio_session cookie in response")
	return nil
}

func TestRegisterCreatesAccount(t *testing.T) {
	h, store, mailer := newTestHandler()

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register", registerBody("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]uint64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp["user_id"])
	assert.False(t, store.users[resp["user_id"]].IsActive)
	assert.Len(t, mailer.urls, 1)
}

func TestRegisterValidation(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register",
		`{"email":"ada@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h.Register, http.MethodPost, "/v1/auth/register", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register", registerBody("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(h.Register, http.MethodPost, "/v1/auth/register", registerBody("ada@example.com"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginBlockedUntilVerified(t *testing.T) {
	h, _, mailer := newTestHandler()

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register", registerBody("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	login := `{"email":"ada@example.com","password":"password123"}`
	rec = doJSON(h.Login, http.MethodPost, "/v1/auth/login", login)
	assert.Equal(t, http.StatusForbidden, rec.Code, "unverified accounts cannot log in")

	// Follow the mailed activation link.
	require.Len(t, mailer.urls, 1)
	i := strings.Index(mailer.urls[0], "token=")
	require.GreaterOrEqual(t, i, 0)
	rec = doJSON(h.VerifyEmail, http.MethodGet, "/v1/auth/verify-email?token="+mailer.urls[0][i+len("token="):], "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(h.Login, http.MethodPost, "/v1/auth/login", login)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ck := sessionCookieFrom(t, rec)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/", ck.Path)
}

func TestLoginFailureStatuses(t *testing.T) {
	h, store, _ := newTestHandler()

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register", registerBody("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	for id := range store.users {
		require.NoError(t, store.Activate(context.Background(), id))
	}

	rec = doJSON(h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"ada@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(h.Logout, http.MethodPost, "/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ck := sessionCookieFrom(t, rec)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}

func TestVerifyEmailRejectsBadTokens(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := doJSON(h.VerifyEmail, http.MethodGet, "/v1/auth/verify-email", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h.VerifyEmail, http.MethodGet, "/v1/auth/verify-email?token=garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendVerificationEmail(t *testing.T) {
	h, store, mailer := newTestHandler()

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register", registerBody("ada@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, mailer.urls, 1)

	rec = doJSON(h.SendVerificationEmail, http.MethodPost, "/v1/auth/send-verification-email",
		`{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, mailer.urls, 2)

	rec = doJSON(h.SendVerificationEmail, http.MethodPost, "/v1/auth/send-verification-email",
		`{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for id := range store.users {
		require.NoError(t, store.Activate(context.Background(), id))
	}
	rec = doJSON(h.SendVerificationEmail, http.MethodPost, "/v1/auth/send-verification-email",
		`{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "already-verified accounts get a 400")
	assert.Len(t, mailer.urls, 2, "no additional mail for a verified account")
}
