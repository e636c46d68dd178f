package service

import (
	"context"
	"time"

	"github.com/guidio/guidio-api/internal/model"
	"github.com/guidio/guidio-api/internal/queue"
)

// DetailStore provisions the empty profile-detail record a new account gets.
type DetailStore interface {
	CreateEmpty(ctx context.Context, userID uint64) error
}

// ActivityPublisher pushes an audit event onto the broker. Publishing is
// best-effort: the manager ignores failures (the publisher logs them) so an
// unreachable broker never fails a request.
type ActivityPublisher func(ctx context.Context, event queue.AccountActivityEvent) error

// RegistrationData is the input to Register, already validated at the HTTP
// boundary. Password is plaintext here and nowhere below this layer.
type RegistrationData struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthManager composes the AuthService into the register/login/verify use
// cases and narrows domain failures into the user-facing kinds the handlers
// translate.
type AuthManager struct {
	svc     *AuthService
	details DetailStore
	publish ActivityPublisher // nil disables event publishing
}

func NewAuthManager(svc *AuthService, details DetailStore, publish ActivityPublisher) *AuthManager {
	return &AuthManager{svc: svc, details: details, publish: publish}
}

// Service exposes the underlying AuthService for collaborators that need the
// lower-level operations (session middleware, profile handlers).
func (m *AuthManager) Service() *AuthService { return m.svc }

// Register creates the account in the unverified state, provisions its empty
// profile-detail record, and sends the activation email built from the
// request's base URL. Fails with ErrAlreadyExists when the email is taken.
// Returns the new user's identifier.
func (m *AuthManager) Register(ctx context.Context, baseURL string, data RegistrationData) (uint64, error) {
	user, err := m.svc.CreateAccount(ctx, data.Email, data.FirstName, data.LastName, data.Password)
	if err != nil {
		return 0, err
	}

	if err := m.details.CreateEmpty(ctx, user.ID); err != nil {
		return 0, err
	}

	if err := m.svc.SendActivationEmail(ctx, baseURL, user); err != nil {
		return 0, err
	}

	m.emit(ctx, queue.AccountActivityEvent{
		Type:   queue.EventUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
	})

	return user.ID, nil
}

// Login verifies credentials and issues a session token. An account that has
// not completed email verification fails with ErrAccountNotVerified, distinct
// from credential failure.
func (m *AuthManager) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := m.svc.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrAccountNotVerified
	}

	token, err := m.svc.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token.Token, nil
}

// RequestVerificationEmail resends the activation email with a freshly issued
// token. ErrNotFound for unknown emails, ErrAccountAlreadyVerified when the
// account is already active (and no mail is sent). Older links, if any,
// remain valid until their own expiry.
func (m *AuthManager) RequestVerificationEmail(ctx context.Context, baseURL, email string) error {
	user, err := m.svc.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsActive {
		return ErrAccountAlreadyVerified
	}
	return m.svc.SendActivationEmail(ctx, baseURL, user)
}

// ActivateViaToken resolves the user from a verification token and flips the
// account to active. Decode failures propagate before any state change; an
// expired link can never activate an account.
func (m *AuthManager) ActivateViaToken(ctx context.Context, raw string) (*model.User, error) {
	user, err := m.svc.ResolveFromToken(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := m.svc.Activate(ctx, user); err != nil {
		return nil, err
	}

	m.emit(ctx, queue.AccountActivityEvent{
		Type:   queue.EventUserActivated,
		UserID: user.ID,
		Email:  user.Email,
	})

	return user, nil
}

func (m *AuthManager) emit(ctx context.Context, event queue.AccountActivityEvent) {
	if m.publish == nil {
		return
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	_ = m.publish(ctx, event) // best-effort, failures already logged
}
