package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/pkg/security"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// SessionManager issues access/refresh token pairs and manages the cookies
// that carry them. Both cookies are HttpOnly, Secure and SameSite=None so the
// browser frontend can use them cross-site.
type SessionManager struct {
	codec *security.TokenCodec
}

func NewSessionManager(codec *security.TokenCodec) *SessionManager {
	return &SessionManager{codec: codec}
}

// Issue mints a fresh access/refresh pair for the user.
func (s *SessionManager) Issue(user *domain.User) (accessToken, refreshToken string, err error) {
	accessToken, err = s.codec.SignAccess(user.ID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.codec.SignRefresh(user.ID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// SetCookies attaches the pair to the response with expiry matching the
// token lifetimes.
func (s *SessionManager) SetCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(sessionCookie(accessCookie, accessToken, s.codec.AccessTTL()))
	c.SetCookie(sessionCookie(refreshCookie, refreshToken, s.codec.RefreshTTL()))
}

// Clear overwrites both cookies with empty, already-expired values.
func (s *SessionManager) Clear(c echo.Context) {
	c.SetCookie(expiredCookie(accessCookie))
	c.SetCookie(expiredCookie(refreshCookie))
}

func sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// readCookie returns the cookie value or "" when absent.
func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
