package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// PostgresLayoutRepo stores layout documents as JSONB rows keyed by type. The
// type column carries a unique index, mirroring the singleton-per-type rule.
type PostgresLayoutRepo struct {
	db *sql.DB
}

func NewPostgresLayoutRepo(db *sql.DB) *PostgresLayoutRepo {
	return &PostgresLayoutRepo{db: db}
}

func (r *PostgresLayoutRepo) GetByType(ctx context.Context, layoutType string) (*domain.Layout, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM layouts WHERE type = $1`, layoutType,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	layout := &domain.Layout{}
	if err := json.Unmarshal(doc, layout); err != nil {
		return nil, fmt.Errorf("corrupt layout document: %w", err)
	}
	return layout, nil
}

func (r *PostgresLayoutRepo) Create(ctx context.Context, layout *domain.Layout) error {
	layout.CreatedAt = time.Now()
	layout.UpdatedAt = layout.CreatedAt

	doc, err := json.Marshal(layout)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO layouts (id, type, doc, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		layout.ID, layout.Type, doc, layout.CreatedAt, layout.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to create layout: %w", err)
	}
	return nil
}

func (r *PostgresLayoutRepo) Update(ctx context.Context, layout *domain.Layout) error {
	layout.UpdatedAt = time.Now()

	doc, err := json.Marshal(layout)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE layouts SET doc = $1, updated_at = $2 WHERE type = $3`,
		doc, layout.UpdatedAt, layout.Type,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
