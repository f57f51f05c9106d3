package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Order records one course purchase. PaymentInfo is kept as the gateway's raw
// response; the backend never interprets it beyond storage.
type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CourseID    string          `json:"course_id"`
	PaymentInfo json.RawMessage `json:"payment_info,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	// List returns all orders, newest first.
	List(ctx context.Context) ([]*Order, error)
}
