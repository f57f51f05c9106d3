package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// PostgresOrderRepo implements domain.OrderRepository.
type PostgresOrderRepo struct {
	db *sql.DB
}

func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

func (r *PostgresOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	order.CreatedAt = time.Now()

	payment := order.PaymentInfo
	if len(payment) == 0 {
		payment = []byte("{}")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, course_id, payment_info, created_at) VALUES ($1, $2, $3, $4, $5)`,
		order.ID, order.UserID, order.CourseID, []byte(payment), order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, course_id, payment_info, created_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		var payment []byte
		if err := rows.Scan(&order.ID, &order.UserID, &order.CourseID, &payment, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.PaymentInfo = payment
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
