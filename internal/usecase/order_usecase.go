package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// OrderUsecase handles course purchases and payment-intent creation.
type OrderUsecase struct {
	orders  domain.OrderRepository
	courses domain.CourseRepository
	users   domain.UserRepository
	cache   domain.UserCache
	mailer  domain.Mailer
	gateway domain.PaymentGateway
}

func NewOrderUsecase(
	orders domain.OrderRepository,
	courses domain.CourseRepository,
	users domain.UserRepository,
	cache domain.UserCache,
	mailer domain.Mailer,
	gateway domain.PaymentGateway,
) *OrderUsecase {
	return &OrderUsecase{
		orders:  orders,
		courses: courses,
		users:   users,
		cache:   cache,
		mailer:  mailer,
		gateway: gateway,
	}
}

// Create records a purchase: the order row is written, the course is added to
// the user's enrollments, the purchase counter bumps, and a confirmation mail
// goes out. Buying a course twice is rejected.
func (u *OrderUsecase) Create(ctx context.Context, user *domain.User, courseID string, paymentInfo json.RawMessage) (*domain.Order, error) {
	if courseID == "" {
		return nil, ErrMissingFields
	}

	course, err := u.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	// The principal may have been served from the cache, and cache entries
	// never carry the credential hash. Writing that struct back would blank
	// password_hash, so the row is re-loaded before it is mutated.
	account, err := u.users.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if account.HasCourse(courseID) {
		return nil, ErrAlreadyPurchased
	}

	order := &domain.Order{
		ID:          uuid.NewString(),
		UserID:      account.ID,
		CourseID:    courseID,
		PaymentInfo: paymentInfo,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	account.Courses = append(account.Courses, courseID)
	if err := u.users.Update(ctx, account); err != nil {
		return nil, err
	}
	_ = u.cache.Delete(ctx, account.ID)

	course.Purchased++
	if err := u.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	err = u.mailer.Send(ctx, domain.Mail{
		To:       account.Email,
		Subject:  "Order confirmation",
		Template: "order-confirmation",
		Data: map[string]any{
			"Name":    account.Name,
			"Course":  course.Name,
			"OrderID": order.ID,
		},
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List returns all orders, newest first. Admin only.
func (u *OrderUsecase) List(ctx context.Context) ([]*domain.Order, error) {
	return u.orders.List(ctx)
}

// CreatePayment asks the gateway for a payment intent and returns its client
// secret.
func (u *OrderUsecase) CreatePayment(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrMissingFields
	}
	return u.gateway.CreateIntent(ctx, amount, "usd")
}
