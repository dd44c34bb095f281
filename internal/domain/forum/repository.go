package forum

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Repository defines forum data access interface
type Repository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*PostWithCounts, error)

	CreateComment(ctx context.Context, comment *PostComment) error
	GetCommentByID(ctx context.Context, id int64) (*PostComment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]*PostComment, error)

	GetLike(ctx context.Context, userID, postID int64) (*PostLike, error)
	CreateLike(ctx context.Context, like *PostLike) error
	UpdateLike(ctx context.Context, userID, postID int64, isLike bool) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new forum repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (user_id, title, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		post.UserID,
		post.Title,
		post.Content,
		post.CreatedAt,
	).Scan(&post.ID)
}

func (r *repository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	query := `SELECT * FROM posts WHERE id = $1`
	var post Post
	err := r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *repository) ListPosts(ctx context.Context, limit, offset int) ([]*PostWithCounts, error) {
	query := `
		SELECT p.*,
		       u.username AS author,
		       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id AND l.is_like)     AS likes,
		       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id AND NOT l.is_like) AS dislikes,
		       (SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id)                AS comments
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	var posts []*PostWithCounts
	err := r.db.SelectContext(ctx, &posts, query, limit, offset)
	return posts, err
}

func (r *repository) CreateComment(ctx context.Context, comment *PostComment) error {
	query := `
		INSERT INTO post_comments (post_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		comment.PostID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt,
	).Scan(&comment.ID)
}

func (r *repository) GetCommentByID(ctx context.Context, id int64) (*PostComment, error) {
	query := `SELECT * FROM post_comments WHERE id = $1`
	var comment PostComment
	err := r.db.GetContext(ctx, &comment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *repository) ListCommentsByPost(ctx context.Context, postID int64) ([]*PostComment, error) {
	query := `
		SELECT * FROM post_comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`
	var comments []*PostComment
	err := r.db.SelectContext(ctx, &comments, query, postID)
	return comments, err
}

func (r *repository) GetLike(ctx context.Context, userID, postID int64) (*PostLike, error) {
	query := `SELECT * FROM post_likes WHERE user_id = $1 AND post_id = $2`
	var like PostLike
	err := r.db.GetContext(ctx, &like, query, userID, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

func (r *repository) CreateLike(ctx context.Context, like *PostLike) error {
	query := `
		INSERT INTO post_likes (post_id, user_id, is_like, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		like.PostID,
		like.UserID,
		like.IsLike,
		like.CreatedAt,
	).Scan(&like.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

func (r *repository) UpdateLike(ctx context.Context, userID, postID int64, isLike bool) error {
	query := `UPDATE post_likes SET is_like = $3 WHERE user_id = $1 AND post_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, postID, isLike)
	return err
}
