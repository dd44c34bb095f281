package notification

import (
	"time"
)

// Type represents notification type
type Type string

const (
	TypeAdminWarning Type = "admin_warning" // moderation issued a warning
	TypeBanned       Type = "banned"        // moderation banned the account
	TypePostComment  Type = "post_comment"  // someone commented on your post
	TypePostLike     Type = "post_like"     // someone liked your post
	TypeCollection   Type = "collection"    // anime added to your collection
)

// Notification represents a user notification.
// Rows are created only as a side effect of another action and are never
// created for the action's own actor.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Type      Type      `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
