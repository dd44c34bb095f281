package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository defines review data access interface
type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	ListByAnime(ctx context.Context, animeID int64) ([]*ReviewWithAuthor, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new review repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (user_id, anime_id, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		review.UserID,
		review.AnimeID,
		review.Rating,
		review.Text,
		review.CreatedAt,
	).Scan(&review.ID)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	query := `SELECT * FROM reviews WHERE id = $1`
	var review Review
	err := r.db.GetContext(ctx, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *repository) ListByAnime(ctx context.Context, animeID int64) ([]*ReviewWithAuthor, error) {
	query := `
		SELECT r.*, u.username AS author
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.anime_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`
	var reviews []*ReviewWithAuthor
	err := r.db.SelectContext(ctx, &reviews, query, animeID)
	return reviews, err
}
