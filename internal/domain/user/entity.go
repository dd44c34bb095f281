package user

import (
	"database/sql"
	"time"
)

// User represents a community member account
type User struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        sql.NullString `db:"email"`
	PasswordHash string         `db:"password_hash"`
	IsAdmin      bool           `db:"is_admin"`
	IsBanned     bool           `db:"is_banned"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	CreatedAt    time.Time      `db:"created_at"`
}
