package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// LayoutInput carries the request payload for layout create/edit. Only the
// fields matching Type are used.
type LayoutInput struct {
	Type       string
	Image      string // data URL for Banner, or an already-hosted https URL on edit
	Title      string
	SubTitle   string
	FAQ        []domain.FAQItem
	Categories []domain.Category
}

// LayoutUsecase manages the singleton content documents that drive the
// landing page (banner, FAQ, categories).
type LayoutUsecase struct {
	layouts domain.LayoutRepository
	media   domain.MediaStorage
}

func NewLayoutUsecase(layouts domain.LayoutRepository, media domain.MediaStorage) *LayoutUsecase {
	return &LayoutUsecase{layouts: layouts, media: media}
}

// Create adds the layout document for a type that does not exist yet.
func (u *LayoutUsecase) Create(ctx context.Context, input LayoutInput) error {
	if !knownLayoutType(input.Type) {
		return ErrInvalidLayout
	}

	if _, err := u.layouts.GetByType(ctx, input.Type); err == nil {
		return ErrLayoutExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	layout := &domain.Layout{ID: uuid.NewString(), Type: input.Type}
	switch input.Type {
	case domain.LayoutBanner:
		asset, err := u.media.Upload(ctx, "layout", input.Image)
		if err != nil {
			return err
		}
		layout.Banner = &domain.Banner{
			Image:    *asset,
			Title:    input.Title,
			SubTitle: input.SubTitle,
		}
	case domain.LayoutFAQ:
		layout.FAQ = input.FAQ
	case domain.LayoutCategories:
		layout.Categories = input.Categories
	}

	return u.layouts.Create(ctx, layout)
}

// Edit replaces the content of an existing layout document. A banner image
// that is already a hosted URL is kept as-is; anything else is treated as a
// fresh upload.
func (u *LayoutUsecase) Edit(ctx context.Context, input LayoutInput) error {
	if !knownLayoutType(input.Type) {
		return ErrInvalidLayout
	}

	layout, err := u.layouts.GetByType(ctx, input.Type)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrLayoutNotFound
		}
		return err
	}

	switch input.Type {
	case domain.LayoutBanner:
		// A Banner row without banner content has no image to keep, so
		// anything the caller sends is treated as a fresh upload.
		var image domain.MediaAsset
		if layout.Banner != nil {
			image = layout.Banner.Image
		}
		if layout.Banner == nil || !strings.HasPrefix(input.Image, "https") {
			asset, err := u.media.Upload(ctx, "layout", input.Image)
			if err != nil {
				return err
			}
			image = *asset
		}
		layout.Banner = &domain.Banner{
			Image:    image,
			Title:    input.Title,
			SubTitle: input.SubTitle,
		}
	case domain.LayoutFAQ:
		layout.FAQ = input.FAQ
	case domain.LayoutCategories:
		layout.Categories = input.Categories
	}

	return u.layouts.Update(ctx, layout)
}

// GetByType returns the layout document for a type.
func (u *LayoutUsecase) GetByType(ctx context.Context, layoutType string) (*domain.Layout, error) {
	layout, err := u.layouts.GetByType(ctx, layoutType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	return layout, nil
}

func knownLayoutType(t string) bool {
	switch t {
	case domain.LayoutBanner, domain.LayoutFAQ, domain.LayoutCategories:
		return true
	}
	return false
}
