package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signing secrets, one per token purpose. A token minted for one flow cannot
// be verified by another because the HMAC key differs; the typed claims below
// additionally keep callers from handing one flow's payload to another at
// compile time.
type TokenSecrets struct {
	Activation  string
	Reset       string
	ResetGrant  string
	EmailChange string
	Access      string
	Refresh     string
}

// TokenCodec signs and verifies the purpose-scoped tokens used by the
// registration, password-reset, email-change and session flows.
type TokenCodec struct {
	secrets      TokenSecrets
	accessTTL    time.Duration
	refreshTTL   time.Duration
	challengeTTL time.Duration
}

func NewTokenCodec(secrets TokenSecrets, accessTTL, refreshTTL, challengeTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secrets:      secrets,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
		challengeTTL: challengeTTL,
	}
}

// ActivationClaims carries the pending registration until the user confirms
// the emailed code. The credential is embedded as an Argon2id hash, never
// plaintext: a signed JWT is readable by anyone holding it.
type ActivationClaims struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Code         string `json:"code"`
	jwt.RegisteredClaims
}

// ResetClaims gates the first step of a password reset: proving receipt of
// the emailed code.
type ResetClaims struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	jwt.RegisteredClaims
}

// ResetGrantClaims is the narrower token issued after the reset code has been
// accepted. It only authorizes setting a new password for the named email.
type ResetGrantClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// EmailChangeClaims gates changing an account's email to the named address.
type EmailChangeClaims struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	jwt.RegisteredClaims
}

// SessionClaims is shared by access and refresh tokens; the user id is the
// only payload.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (c *TokenCodec) SignActivation(name, email, passwordHash, code string) (string, error) {
	claims := &ActivationClaims{
		Name:             name,
		Email:            email,
		PasswordHash:     passwordHash,
		Code:             code,
		RegisteredClaims: stamp(c.challengeTTL),
	}
	return sign(claims, c.secrets.Activation)
}

func (c *TokenCodec) VerifyActivation(token string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := verify(token, claims, c.secrets.Activation); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) SignReset(email, code string) (string, error) {
	claims := &ResetClaims{
		Email:            email,
		Code:             code,
		RegisteredClaims: stamp(c.challengeTTL),
	}
	return sign(claims, c.secrets.Reset)
}

func (c *TokenCodec) VerifyReset(token string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := verify(token, claims, c.secrets.Reset); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) SignResetGrant(email string) (string, error) {
	claims := &ResetGrantClaims{
		Email:            email,
		RegisteredClaims: stamp(c.challengeTTL),
	}
	return sign(claims, c.secrets.ResetGrant)
}

func (c *TokenCodec) VerifyResetGrant(token string) (*ResetGrantClaims, error) {
	claims := &ResetGrantClaims{}
	if err := verify(token, claims, c.secrets.ResetGrant); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) SignEmailChange(email, code string) (string, error) {
	claims := &EmailChangeClaims{
		Email:            email,
		Code:             code,
		RegisteredClaims: stamp(c.challengeTTL),
	}
	return sign(claims, c.secrets.EmailChange)
}

func (c *TokenCodec) VerifyEmailChange(token string) (*EmailChangeClaims, error) {
	claims := &EmailChangeClaims{}
	if err := verify(token, claims, c.secrets.EmailChange); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) SignAccess(userID string) (string, error) {
	claims := &SessionClaims{UserID: userID, RegisteredClaims: stamp(c.accessTTL)}
	return sign(claims, c.secrets.Access)
}

func (c *TokenCodec) VerifyAccess(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := verify(token, claims, c.secrets.Access); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) SignRefresh(userID string) (string, error) {
	claims := &SessionClaims{UserID: userID, RegisteredClaims: stamp(c.refreshTTL)}
	return sign(claims, c.secrets.Refresh)
}

func (c *TokenCodec) VerifyRefresh(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := verify(token, claims, c.secrets.Refresh); err != nil {
		return nil, err
	}
	return claims, nil
}

// AccessTTL reports the configured access-token lifetime, used to derive
// cookie expiry.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL reports the configured refresh-token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

func stamp(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "learnhub-api",
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// verify parses the token into claims and validates signature and expiry.
// jwt/v5 errors (ErrTokenExpired, ErrTokenSignatureInvalid, ...) are passed
// through unwrapped so callers can tell them apart.
func verify(tokenString string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
