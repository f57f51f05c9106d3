package http

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/internal/usecase"
)

const principalKey = "principal"

// principalResolver loads the authenticated user by id. Satisfied by
// usecase.UserUsecase; narrowed to an interface so the gate can be tested
// with a fake.
type principalResolver interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate authenticates requests from the session cookies. When the access
// token is missing or unusable it renews the session from the refresh token
// inline, so rotation never needs a dedicated endpoint: the handler either
// runs with a resolved principal or the request is rejected here.
type Gate struct {
	sessions *SessionManager
	resolver principalResolver
}

func NewGate(sessions *SessionManager, resolver principalResolver) *Gate {
	return &Gate{sessions: sessions, resolver: resolver}
}

// Authenticate resolves the principal and stores it on the request context.
func (g *Gate) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		accessToken := readCookie(c, accessCookie)
		if accessToken == "" {
			refreshToken := readCookie(c, refreshCookie)
			if refreshToken == "" {
				return respondError(c, usecase.ErrUnauthenticated)
			}

			claims, err := g.sessions.codec.VerifyRefresh(refreshToken)
			if err != nil {
				return respondError(c, err)
			}

			user, err := g.resolver.GetUserByID(ctx, claims.UserID)
			if err != nil {
				return respondError(c, err)
			}

			// Rotate both tokens and continue the request as if the
			// fresh access token had been presented originally.
			newAccess, newRefresh, err := g.sessions.Issue(user)
			if err != nil {
				return respondError(c, err)
			}
			g.sessions.SetCookies(c, newAccess, newRefresh)
			accessToken = newAccess
		}

		claims, err := g.sessions.codec.VerifyAccess(accessToken)
		if err != nil {
			return respondError(c, err)
		}

		user, err := g.resolver.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return respondError(c, err)
		}

		c.Set(principalKey, user)
		return next(c)
	}
}

// AuthorizeRoles admits only principals whose role is in the allowed set.
// Must run after Authenticate.
func AuthorizeRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := principalFrom(c)
			if user == nil {
				return respondError(c, usecase.ErrUnauthenticated)
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return respondError(c, &usecase.ForbiddenRoleError{Role: user.Role})
		}
	}
}

// principalFrom returns the authenticated user attached by Authenticate, or
// nil when the route ran without it.
func principalFrom(c echo.Context) *domain.User {
	user, _ := c.Get(principalKey).(*domain.User)
	return user
}
