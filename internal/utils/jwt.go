package utils // package utils provides helper functions for token creation and hashing

import (
	"encoding/base64" // subject encoding inside the token payload
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrTokenExpired is returned by DecodeAuthToken when the token is otherwise
// well-formed but its expiry has elapsed. Expiry is the only invalidation
// mechanism: tokens are stateless and never revoked server-side.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned when the signature does not verify, the signing
// algorithm differs from the configured one, or the payload is malformed.
var ErrTokenInvalid = errors.New("invalid token")

// AuthToken is a signed, self-contained session/verification token along with
// its expiry. The same artifact backs login sessions and email-verification
// links; only the delivery channel differs (cookie vs. mailed URL).
type AuthToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the decoded payload of an AuthToken. Subject carries the
// encoded user identifier; use DecodeSubject to recover the numeric id.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewAuthToken builds and signs a token for a user. The subject is the
// base64-encoded decimal user id so the raw identifier is not embedded
// verbatim. Issued-at is always the current server time; tokens are never
// backdated or pre-issued.
func NewAuthToken(secret, algorithm string, userID uint64, ttlMin int) (AuthToken, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return AuthToken{}, ErrTokenInvalid
	}
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": EncodeSubject(userID),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(method, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AuthToken{}, err
	}
	return AuthToken{Token: signed, Exp: exp}, nil
}

// DecodeAuthToken parses and validates a raw token string. Only the configured
// algorithm is accepted; a token signed with any other method fails with
// ErrTokenInvalid even when the signature itself would verify.
func DecodeAuthToken(secret, algorithm, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{algorithm}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}

	out := TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		out.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return TokenClaims{}, ErrTokenInvalid
	}
	out.ExpiresAt = exp.Time
	return out, nil
}

// EncodeSubject converts a user id into the opaque subject form embedded in
// tokens.
func EncodeSubject(userID uint64) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatUint(userID, 10)))
}

// DecodeSubject recovers the numeric user id from an encoded subject. An
// empty, undecodable or non-numeric subject is an error; the caller decides
// how to surface it.
func DecodeSubject(sub string) (uint64, error) {
	if sub == "" {
		return 0, errors.New("empty subject")
	}
	b, err := base64.StdEncoding.DecodeString(sub)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, err
	}
	return id, nil
}
