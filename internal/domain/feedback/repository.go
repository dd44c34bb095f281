package feedback

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
	ListAll(ctx context.Context) ([]Item, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, fb *Feedback) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO development_feedback (user_id, topic, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		fb.UserID, fb.Topic, fb.Content, fb.CreatedAt,
	).Scan(&fb.ID)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *repository) ListAll(ctx context.Context) ([]Item, error) {
	list := []Item{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT f.id, f.user_id, COALESCE(u.username, 'Unknown') AS username,
		       f.topic, f.content, f.created_at
		FROM development_feedback f
		LEFT JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return list, nil
}
