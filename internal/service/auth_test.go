package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/utils"
)

// fakeUserStore is an in-memory UserStore with the repository's (nil, nil)
// convention for absent rows.
type fakeUserStore struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, firstName, lastName, passwordHash string) (uint64, error) {
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = &model.User{
		ID:           s.nextID,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *fakeUserStore) Activate(_ context.Context, id uint64) error {
	if u, ok := s.users[id]; ok {
		u.IsActive = true
	}
	return nil
}

// fakeMailer records activation sends instead of talking SMTP.
type fakeMailer struct {
	sent []string // activation URLs, in order
	to   []string
}

func (m *fakeMailer) SendActivation(to, _ string, url string, _ time.Time) error {
	m.to = append(m.to, to)
	m.sent = append(m.sent, url)
	return nil
}

func testTokens() TokenConfig {
	return TokenConfig{Secret: "unit-test-secret", Algorithm: "HS256", TTLMinutes: 30}
}

func newTestService() (*AuthService, *fakeUserStore, *fakeMailer) {
	store := newFakeUserStore()
	mailer := &fakeMailer{}
	return NewAuthService(store, mailer, testTokens(), bcrypt.MinCost), store, mailer
}

func TestCreateAccountStartsUnverified(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.CreateAccount(context.Background(), "ada@example.com", "Ada", "Lovelace", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.False(t, user.IsActive, "new accounts must start unverified")
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, utils.VerifyPassword(user.PasswordHash, "password123"))
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "ada@example.com", "Ada", "Lovelace", "password123")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "ada@example.com", "Other", "Person", "different-pass")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAuthenticateDistinguishesFailures(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "ada@example.com", "Ada", "Lovelace", "password123")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"a known email with a bad password is a credential failure, never not-found")

	user, err := svc.Authenticate(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, user.IsActive, "authenticate does not gate on the active flag")
}

func TestIssueAndResolveSession(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "ada@example.com", "Ada", "Lovelace", "password123")
	require.NoError(t, err)

	tok, err := svc.IssueSession(user.ID)
	require.NoError(t, err)

	resolved, err := svc.ResolveFromToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.Email, resolved.Email)
}

func TestResolveFromTokenFailures(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ResolveFromToken(ctx, "garbage")
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)

	expired, err := utils.NewAuthToken("unit-test-secret", "HS256", 1, -10)
	require.NoError(t, err)
	_, err = svc.ResolveFromToken(ctx, expired.Token)
	assert.ErrorIs(t, err, utils.ErrTokenExpired)

	// Valid token whose subject points at nobody.
	require.Empty(t, store.users)
	orphan, err := utils.NewAuthToken("unit-test-secret", "HS256", 999, 30)
	require.NoError(t, err)
	_, err = svc.ResolveFromToken(ctx, orphan.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivateIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "ada@example.com", "Ada", "Lovelace", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Activate(ctx, user))
	assert.True(t, user.IsActive)
	assert.True(t, store.users[user.ID].IsActive)

	require.NoError(t, svc.Activate(ctx, user), "re-activating stays a no-op, not an error")
	assert.True(t, user.IsActive)
}

func TestSendActivationEmailBuildsVerifyLink(t *testing.T) {
	svc, _, mailer := newTestService()
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "ada@example.com", "Ada", "Lovelace", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.SendActivationEmail(ctx, "https://guidio.app/", user))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.to[0])

	url := mailer.sent[0]
	assert.True(t, strings.HasPrefix(url, "https://guidio.app/v1/auth/verify-email?token="), url)

	// The mailed token resolves back to the same account.
	raw := strings.TrimPrefix(url, "https://guidio.app/v1/auth/verify-email?token=")
	resolved, err := svc.ResolveFromToken(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}
