package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// CourseUsecase manages course content: admin CRUD, public catalogue views
// and the enrolled-content access check.
type CourseUsecase struct {
	courses domain.CourseRepository
	media   domain.MediaStorage
}

func NewCourseUsecase(courses domain.CourseRepository, media domain.MediaStorage) *CourseUsecase {
	return &CourseUsecase{courses: courses, media: media}
}

// Create stores a new course; a non-empty thumbnail payload is uploaded to
// media storage first.
func (u *CourseUsecase) Create(ctx context.Context, course *domain.Course, thumbnailData string) (*domain.Course, error) {
	if course.Name == "" || course.Description == "" {
		return nil, ErrMissingFields
	}

	course.ID = uuid.NewString()
	if thumbnailData != "" {
		asset, err := u.media.Upload(ctx, "courses", thumbnailData)
		if err != nil {
			return nil, err
		}
		course.Thumbnail = *asset
	}

	if err := u.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Edit overwrites the editable fields of an existing course. A new thumbnail
// payload replaces the stored asset (old one destroyed first, row written
// only after a successful upload).
func (u *CourseUsecase) Edit(ctx context.Context, id string, updated *domain.Course, thumbnailData string) (*domain.Course, error) {
	course, err := u.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if thumbnailData != "" {
		if course.Thumbnail.PublicID != "" {
			if err := u.media.Destroy(ctx, course.Thumbnail.PublicID); err != nil {
				return nil, err
			}
		}
		asset, err := u.media.Upload(ctx, "courses", thumbnailData)
		if err != nil {
			return nil, err
		}
		course.Thumbnail = *asset
	}

	course.Name = updated.Name
	course.Description = updated.Description
	course.Price = updated.Price
	course.EstimatedPrice = updated.EstimatedPrice
	course.Tags = updated.Tags
	course.Level = updated.Level
	course.DemoURL = updated.DemoURL
	course.Benefits = updated.Benefits
	course.Prerequisites = updated.Prerequisites
	course.Content = updated.Content

	if err := u.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetPublic returns a single course without its paid content.
func (u *CourseUsecase) GetPublic(ctx context.Context, id string) (*domain.Course, error) {
	course, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return course.PublicView(), nil
}

// ListPublic returns the catalogue without paid content.
func (u *CourseUsecase) ListPublic(ctx context.Context) ([]*domain.Course, error) {
	courses, err := u.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.Course, len(courses))
	for i, c := range courses {
		views[i] = c.PublicView()
	}
	return views, nil
}

// ListAdmin returns full course documents, content included.
func (u *CourseUsecase) ListAdmin(ctx context.Context) ([]*domain.Course, error) {
	return u.courses.List(ctx)
}

// GetAdmin returns one full course document.
func (u *CourseUsecase) GetAdmin(ctx context.Context, id string) (*domain.Course, error) {
	return u.get(ctx, id)
}

// GetContent returns the paid content of a course for a user who purchased it.
// Admins bypass the enrollment check.
func (u *CourseUsecase) GetContent(ctx context.Context, user *domain.User, id string) (*domain.Course, error) {
	course, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin && !user.HasCourse(id) {
		return nil, ErrNotEnrolled
	}
	return course, nil
}

// Delete removes a course.
func (u *CourseUsecase) Delete(ctx context.Context, id string) error {
	if _, err := u.get(ctx, id); err != nil {
		return err
	}
	return u.courses.Delete(ctx, id)
}

func (u *CourseUsecase) get(ctx context.Context, id string) (*domain.Course, error) {
	course, err := u.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}
