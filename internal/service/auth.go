package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/repository"
	"github.com/guidio/guidio-api/internal/utils"
)

// UserStore is the slice of the user repository the auth service depends on.
// Lookups return (nil, nil) when no row matches; absence is not an error at
// this boundary.
type UserStore interface {
	Create(ctx context.Context, email, firstName, lastName, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	Activate(ctx context.Context, id uint64) error
}

// Mailer delivers the account-activation email. Dispatch failures propagate
// to the caller and are not retried.
type Mailer interface {
	SendActivation(to, firstName, url string, expiresAt time.Time) error
}

// TokenConfig carries the codec parameters, initialized once at startup and
// read-only afterwards.
type TokenConfig struct {
	Secret     string
	Algorithm  string
	TTLMinutes int
}

// AuthService orchestrates the credential store, password hasher, token codec
// and mail dispatcher. It holds no mutable state beyond its immutable
// configuration, so one instance is safe across concurrent requests.
type AuthService struct {
	users      UserStore
	mailer     Mailer
	tokens     TokenConfig
	bcryptCost int
}

func NewAuthService(users UserStore, mailer Mailer, tokens TokenConfig, bcryptCost int) *AuthService {
	return &AuthService{users: users, mailer: mailer, tokens: tokens, bcryptCost: bcryptCost}
}

// dummyHash is compared against when authenticating an unknown email, so the
// observable timing of "no such user" matches "wrong password".
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CreateAccount persists a new user in the unverified state with a freshly
// computed password hash. Fails with ErrAlreadyExists when the email is
// taken, including when a concurrent registration wins the race on the
// store's uniqueness constraint.
func (s *AuthService) CreateAccount(ctx context.Context, email, firstName, lastName, plainPassword string) (*model.User, error) {
	email = strings.TrimSpace(email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	hash, err := utils.HashPassword(plainPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	id, err := s.users.Create(ctx, email, firstName, lastName, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Inserted a moment ago; only a concurrent delete can get us here.
		return nil, ErrNotFound
	}
	return user, nil
}

// Authenticate verifies the email/password pair. ErrNotFound when no account
// matches the email, ErrInvalidCredentials when the password does not verify.
// It deliberately does NOT check the active flag; that authorization decision
// belongs to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, plainPassword string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.VerifyPassword(dummyHash, plainPassword)
		return nil, ErrNotFound
	}
	if !utils.VerifyPassword(user.PasswordHash, plainPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueSession creates a signed session token for the given user id.
func (s *AuthService) IssueSession(userID uint64) (utils.AuthToken, error) {
	return utils.NewAuthToken(s.tokens.Secret, s.tokens.Algorithm, userID, s.tokens.TTLMinutes)
}

// ResolveFromToken decodes a token and loads the user it identifies.
// Decode failures (utils.ErrTokenExpired, utils.ErrTokenInvalid) propagate
// unchanged; an absent or malformed subject is ErrUnauthorized; a subject
// pointing at no user is ErrNotFound.
func (s *AuthService) ResolveFromToken(ctx context.Context, raw string) (*model.User, error) {
	claims, err := utils.DecodeAuthToken(s.tokens.Secret, s.tokens.Algorithm, raw)
	if err != nil {
		return nil, err
	}

	userID, err := utils.DecodeSubject(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Activate flips the account to active and persists it. Idempotent: calling
// it on an already-active user is not an error at this layer.
func (s *AuthService) Activate(ctx context.Context, user *model.User) error {
	if err := s.users.Activate(ctx, user.ID); err != nil {
		return err
	}
	user.IsActive = true
	return nil
}

// SendActivationEmail issues a fresh verification token and mails the
// activation link built from the request's base URL. Previously issued tokens
// stay valid until their own expiry; there is no single-use invalidation.
func (s *AuthService) SendActivationEmail(ctx context.Context, baseURL string, user *model.User) error {
	token, err := s.IssueSession(user.ID)
	if err != nil {
		return err
	}
	url := strings.TrimRight(baseURL, "/") + "/v1/auth/verify-email?token=" + token.Token
	return s.mailer.SendActivation(user.Email, user.FirstName, url, token.Exp)
}

// UserByEmail is a plain lookup: (nil, nil) when the email is unknown.
func (s *AuthService) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, strings.TrimSpace(email))
}

// UserByID is a plain lookup: (nil, nil) when the id is unknown.
func (s *AuthService) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}
