package forum

import (
	"time"
)

// Post represents a forum post
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostWithCounts is a post joined with its like/comment tallies
type PostWithCounts struct {
	Post
	Author   string `db:"author" json:"author"`
	Likes    int    `db:"likes" json:"likes"`
	Dislikes int    `db:"dislikes" json:"dislikes"`
	Comments int    `db:"comments" json:"comments"`
}

// PostComment represents a comment under a forum post
type PostComment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostLike represents a like or dislike on a post.
// One row per (user_id, post_id), enforced by a unique constraint.
type PostLike struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	IsLike    bool      `db:"is_like" json:"is_like"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
