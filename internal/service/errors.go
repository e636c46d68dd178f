// Package service implements the authentication core: account creation,
// credential verification, session issuance and the email-verification
// workflow, layered as a service (storage-facing orchestration) and a manager
// (use-case orchestration on top of it).
package service

import "errors"

// Domain failures raised by the service and manager layers. Each carries a
// stable machine-checkable identity (errors.Is) and maps to exactly one HTTP
// status at the handler boundary. Token decode failures live in the utils
// package next to the codec; everything else is here.
var (
	// ErrAlreadyExists signals a registration against a taken email.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrNotFound signals that no account matches the given identifier.
	ErrNotFound = errors.New("user does not exist")

	// ErrInvalidCredentials signals a password that does not verify for an
	// existing account. Never returned for unknown emails; that is ErrNotFound.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountNotVerified blocks login on accounts that have not completed
	// email verification, so clients can prompt "check your email" instead of
	// "wrong password".
	ErrAccountNotVerified = errors.New("account not verified")

	// ErrAccountAlreadyVerified rejects a verification-email request for an
	// account that is already active.
	ErrAccountAlreadyVerified = errors.New("account already verified")

	// ErrUnauthorized covers token subjects that are absent or malformed, and
	// operations attempted on someone else's resources.
	ErrUnauthorized = errors.New("unauthorized")
)
