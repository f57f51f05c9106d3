package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testCodec() *TokenCodec {
	return NewTokenCodec(TokenSecrets{
		Activation:  "activation-secret",
		Reset:       "reset-secret",
		ResetGrant:  "reset-grant-secret",
		EmailChange: "email-change-secret",
		Access:      "access-secret",
		Refresh:     "refresh-secret",
	}, 5*time.Minute, 3*24*time.Hour, 5*time.Minute)
}

func TestTokenCodec_ActivationRoundTrip(t *testing.T) {
	codec := testCodec()

	token, err := codec.SignActivation("Alice", "alice@example.com", "$argon2id$hash", "4821")
	if err != nil {
		t.Fatalf("SignActivation() error = %v", err)
	}

	claims, err := codec.VerifyActivation(token)
	if err != nil {
		t.Fatalf("VerifyActivation() error = %v", err)
	}
	if claims.Email != "alice@example.com" || claims.Name != "Alice" || claims.Code != "4821" {
		t.Errorf("VerifyActivation() claims = %+v, want original payload", claims)
	}
	if claims.PasswordHash != "$argon2id$hash" {
		t.Errorf("VerifyActivation() password hash = %q, want embedded hash", claims.PasswordHash)
	}
}

// A token signed for one purpose must fail verification under every other
// purpose's secret.
func TestTokenCodec_PurposeIsolation(t *testing.T) {
	codec := testCodec()

	activation, _ := codec.SignActivation("Alice", "alice@example.com", "hash", "1234")
	reset, _ := codec.SignReset("alice@example.com", "1234")
	access, _ := codec.SignAccess("user-1")

	tests := []struct {
		name   string
		verify func() error
	}{
		{"activation token rejected by reset verifier", func() error {
			_, err := codec.VerifyReset(activation)
			return err
		}},
		{"activation token rejected by reset-grant verifier", func() error {
			_, err := codec.VerifyResetGrant(activation)
			return err
		}},
		{"reset token rejected by email-change verifier", func() error {
			_, err := codec.VerifyEmailChange(reset)
			return err
		}},
		{"access token rejected by refresh verifier", func() error {
			_, err := codec.VerifyRefresh(access)
			return err
		}},
		{"reset token rejected by access verifier", func() error {
			_, err := codec.VerifyAccess(reset)
			return err
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.verify()
			if err == nil {
				t.Fatal("verification succeeded across purposes, want signature failure")
			}
			if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
				t.Errorf("error = %v, want %v", err, jwt.ErrTokenSignatureInvalid)
			}
		})
	}
}

func TestTokenCodec_ExpiredTokenRejected(t *testing.T) {
	codec := NewTokenCodec(TokenSecrets{
		Activation: "a", Reset: "b", ResetGrant: "c",
		EmailChange: "d", Access: "e", Refresh: "f",
	}, -time.Minute, -time.Minute, -time.Minute)

	token, err := codec.SignAccess("user-1")
	if err != nil {
		t.Fatalf("SignAccess() error = %v", err)
	}

	_, err = codec.VerifyAccess(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("VerifyAccess() error = %v, want %v", err, jwt.ErrTokenExpired)
	}
}

func TestTokenCodec_SessionRoundTrip(t *testing.T) {
	codec := testCodec()

	for _, mint := range []struct {
		name   string
		sign   func(string) (string, error)
		verify func(string) (*SessionClaims, error)
	}{
		{"access", codec.SignAccess, codec.VerifyAccess},
		{"refresh", codec.SignRefresh, codec.VerifyRefresh},
	} {
		t.Run(mint.name, func(t *testing.T) {
			token, err := mint.sign("user-42")
			if err != nil {
				t.Fatalf("sign error = %v", err)
			}
			claims, err := mint.verify(token)
			if err != nil {
				t.Fatalf("verify error = %v", err)
			}
			if claims.UserID != "user-42" {
				t.Errorf("UserID = %q, want %q", claims.UserID, "user-42")
			}
		})
	}
}

func TestTokenCodec_GarbageRejected(t *testing.T) {
	codec := testCodec()
	if _, err := codec.VerifyAccess("not-a-token"); err == nil {
		t.Error("VerifyAccess(garbage) succeeded, want error")
	}
}
