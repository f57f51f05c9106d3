package usecase

import (
	"errors"
	"fmt"
)

// Validation failures (missing or malformed input).
var (
	ErrMissingFields    = errors.New("please enter all fields")
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrWeakPassword     = errors.New("weak password, please choose a stronger password")
	ErrPasswordMismatch = errors.New("the new and confirm passwords must be the same")
	ErrMissingCode      = errors.New("enter the code from your email to verify")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidLayout    = errors.New("invalid layout type")
)

// Conflicts with existing state.
var (
	ErrEmailExists       = errors.New("email already exists")
	ErrEmailUnchanged    = errors.New("you are already connected with this email, try a different one")
	ErrNameUnchanged     = errors.New("the new name must be different from the current name")
	ErrRoleUnchanged     = errors.New("this role is already assigned to the user")
	ErrPasswordUnchanged = errors.New("the new password must be different from the current password")
	ErrLayoutExists      = errors.New("layout type already exists")
	ErrAlreadyPurchased  = errors.New("you have already purchased this course")
)

// Authentication failures. These map to 400 at the transport layer, matching
// the uniform bad-request shape the API has always returned for them.
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrInvalidCode          = errors.New("invalid verification code")
	ErrEmailTokenMismatch   = errors.New("invalid request, please verify the new email and try again")
	ErrAccountMismatch      = errors.New("invalid request, please verify your credentials and try again")
	ErrUnauthenticated      = errors.New("please login to access this resource")
)

// Absent resources, reported as 404.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrLayoutNotFound = errors.New("layout not found")
	ErrNotEnrolled    = errors.New("you are not eligible to access this course")
)

// ForbiddenRoleError is returned by the role gate; it names the role that was
// rejected so the response can say which role lacked access.
type ForbiddenRoleError struct {
	Role string
}

func (e *ForbiddenRoleError) Error() string {
	return fmt.Sprintf("role %q is not allowed to access this resource", e.Role)
}

// IsNotFound reports whether err names an absent resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrLayoutNotFound)
}
