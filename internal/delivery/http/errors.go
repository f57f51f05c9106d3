package http

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/usecase"
)

// respondError funnels every handler fault into the uniform error shape.
// Status mapping: forbidden roles get 403, absent resources 404, everything
// else (validation, conflicts, authentication, upstream failures) 400 with
// the original message passed through. Token-library errors keep their own
// message so clients can tell an expired token from a malformed one.
func respondError(c echo.Context, err error) error {
	status := http.StatusBadRequest

	var roleErr *usecase.ForbiddenRoleError
	switch {
	case errors.As(err, &roleErr):
		status = http.StatusForbidden
	case usecase.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed):
		status = http.StatusBadRequest
	}

	return c.JSON(status, echo.Map{
		"success": false,
		"message": err.Error(),
	})
}

var errInvalidBody = errors.New("invalid request body")
