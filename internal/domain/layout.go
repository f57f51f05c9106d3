package domain

import (
	"context"
	"time"
)

// Layout types. Each type exists at most once; create conflicts, edit updates
// in place.
const (
	LayoutBanner     = "Banner"
	LayoutFAQ        = "FAQ"
	LayoutCategories = "Categories"
)

// Banner is the landing-page hero block.
type Banner struct {
	Image    MediaAsset `json:"image"`
	Title    string     `json:"title"`
	SubTitle string     `json:"subTitle"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Category struct {
	Title string `json:"title"`
}

// Layout is a singleton content document keyed by Type. Only the section
// matching the type is populated.
type Layout struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Banner     *Banner    `json:"banner,omitempty"`
	FAQ        []FAQItem  `json:"faq,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type LayoutRepository interface {
	GetByType(ctx context.Context, layoutType string) (*Layout, error)
	Create(ctx context.Context, layout *Layout) error
	Update(ctx context.Context, layout *Layout) error
}
