package review

import (
	"database/sql"
	"time"
)

// Review represents a user review of an anime
type Review struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	AnimeID   int64           `db:"anime_id" json:"anime_id"`
	Rating    sql.NullFloat64 `db:"rating" json:"-"`
	Text      string          `db:"text" json:"text"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ReviewWithAuthor is a review joined with the author's username
type ReviewWithAuthor struct {
	Review
	Author string `db:"author" json:"author"`
}
