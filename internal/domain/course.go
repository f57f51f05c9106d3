package domain

import (
	"context"
	"time"
)

type CourseLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CourseLecture is one video within a section. VideoURL is only served to
// enrolled users and admins.
type CourseLecture struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	VideoURL    string       `json:"video_url"`
	VideoLength int          `json:"video_length"` // minutes
	Links       []CourseLink `json:"links,omitempty"`
}

type CourseSection struct {
	Title    string          `json:"title"`
	Lectures []CourseLecture `json:"lectures"`
}

// Course is the sellable content unit. Content holds the paid sections and is
// stripped from public views.
type Course struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          int64           `json:"price"`
	EstimatedPrice int64           `json:"estimated_price,omitempty"`
	Thumbnail      MediaAsset      `json:"thumbnail"`
	Tags           string          `json:"tags"`
	Level          string          `json:"level"`
	DemoURL        string          `json:"demo_url"`
	Benefits       []string        `json:"benefits,omitempty"`
	Prerequisites  []string        `json:"prerequisites,omitempty"`
	Content        []CourseSection `json:"content,omitempty"`
	Ratings        float64         `json:"ratings"`
	Purchased      int             `json:"purchased"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PublicView returns a copy with the paid content removed, suitable for
// unauthenticated course pages.
func (c *Course) PublicView() *Course {
	view := *c
	view.Content = nil
	return &view
}

type CourseRepository interface {
	GetByID(ctx context.Context, id string) (*Course, error)
	Create(ctx context.Context, course *Course) error
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id string) error
	// List returns all courses, newest first.
	List(ctx context.Context) ([]*Course, error)
}
