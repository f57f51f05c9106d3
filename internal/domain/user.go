package domain

import (
	"context"
	"time"
)

// Roles assignable to a user. The set is fixed; anything else is rejected at
// the role-change endpoint.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Avatar references an externally stored image.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User represents the central identity entity of the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose the credential hash in JSON
	Role         string    `json:"role"`
	Avatar       Avatar    `json:"avatar"`
	Courses      []string  `json:"courses"` // ids of purchased courses
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasCourse reports whether the user purchased the given course.
func (u *User) HasCourse(courseID string) bool {
	for _, id := range u.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}

// UserRepository defines the contract for user persistence. Implementations
// return ErrNotFound when no row matches and ErrDuplicate when the email
// uniqueness constraint is violated.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	// List returns one page of users, newest first, plus the total count.
	List(ctx context.Context, page, limit int) ([]*User, int, error)
}

// UserCache is a read-through cache keyed by user id, invalidated on every
// mutation of the cached user.
type UserCache interface {
	Get(ctx context.Context, id string) (*User, error)
	Set(ctx context.Context, user *User, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
