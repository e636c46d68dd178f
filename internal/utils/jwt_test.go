package utils

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-for-signing"

func TestAuthTokenRoundTrip(t *testing.T) {
	tok, err := NewAuthToken(testSecret, "HS256", 42, 60)
	if err != nil {
		t.Fatalf("NewAuthToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("expected non-empty token string")
	}
	if !tok.Exp.After(time.Now().UTC()) {
		t.Fatalf("expiry %v should be in the future", tok.Exp)
	}

	claims, err := DecodeAuthToken(testSecret, "HS256", tok.Token)
	if err != nil {
		t.Fatalf("DecodeAuthToken: %v", err)
	}
	id, err := DecodeSubject(claims.Subject)
	if err != nil {
		t.Fatalf("DecodeSubject: %v", err)
	}
	if id != 42 {
		t.Fatalf("subject = %d, want 42", id)
	}
	if claims.IssuedAt.IsZero() || claims.ExpiresAt.IsZero() {
		t.Fatal("expected iat and exp claims to be populated")
	}
}

func TestDecodeAuthTokenExpired(t *testing.T) {
	tok, err := NewAuthToken(testSecret, "HS256", 7, -5)
	if err != nil {
		t.Fatalf("NewAuthToken: %v", err)
	}
	_, err = DecodeAuthToken(testSecret, "HS256", tok.Token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestDecodeAuthTokenWrongSecret(t *testing.T) {
	tok, err := NewAuthToken(testSecret, "HS256", 7, 60)
	if err != nil {
		t.Fatalf("NewAuthToken: %v", err)
	}
	_, err = DecodeAuthToken("a-different-secret", "HS256", tok.Token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestDecodeAuthTokenWrongAlgorithm(t *testing.T) {
	// Signed with HS512 but the server only accepts HS256.
	tok, err := NewAuthToken(testSecret, "HS512", 7, 60)
	if err != nil {
		t.Fatalf("NewAuthToken: %v", err)
	}
	_, err = DecodeAuthToken(testSecret, "HS256", tok.Token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestDecodeAuthTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := DecodeAuthToken(testSecret, "HS256", raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("DecodeAuthToken(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestNewAuthTokenUnknownAlgorithm(t *testing.T) {
	if _, err := NewAuthToken(testSecret, "none-of-the-above", 1, 60); err == nil {
		t.Fatal("expected error for unknown signing algorithm")
	}
}

func TestSubjectRoundTrip(t *testing.T) {
	for _, id := range []uint64{1, 42, 18446744073709551615} {
		got, err := DecodeSubject(EncodeSubject(id))
		if err != nil {
			t.Fatalf("DecodeSubject: %v", err)
		}
		if got != id {
			t.Fatalf("round-trip = %d, want %d", got, id)
		}
	}
}

func TestDecodeSubjectRejectsGarbage(t *testing.T) {
	for _, sub := range []string{"", "!!!not-base64!!!", "bm90LWEtbnVtYmVy"} {
		if _, err := DecodeSubject(sub); err == nil {
			t.Fatalf("DecodeSubject(%q) should fail", sub)
		}
	}
}
