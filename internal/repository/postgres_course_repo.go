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

// PostgresCourseRepo stores each course as a JSONB document; the nested
// section/lecture structure changes shape too often to be worth flattening
// into columns.
type PostgresCourseRepo struct {
	db *sql.DB
}

func NewPostgresCourseRepo(db *sql.DB) *PostgresCourseRepo {
	return &PostgresCourseRepo{db: db}
}

func (r *PostgresCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM courses WHERE id = $1`, id,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return unmarshalCourse(doc)
}

func (r *PostgresCourseRepo) Create(ctx context.Context, course *domain.Course) error {
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt

	doc, err := json.Marshal(course)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO courses (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		course.ID, doc, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *PostgresCourseRepo) Update(ctx context.Context, course *domain.Course) error {
	course.UpdatedAt = time.Now()

	doc, err := json.Marshal(course)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET doc = $1, updated_at = $2 WHERE id = $3`,
		doc, course.UpdatedAt, course.ID,
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

func (r *PostgresCourseRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		course, err := unmarshalCourse(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func unmarshalCourse(doc []byte) (*domain.Course, error) {
	course := &domain.Course{}
	if err := json.Unmarshal(doc, course); err != nil {
		return nil, fmt.Errorf("corrupt course document: %w", err)
	}
	return course, nil
}
