package moderation

import (
	"database/sql"
	"time"
)

// Report statuses. A report is "open" while pending; an admin action moves
// it to the action's name, and undo moves it back to pending.
const (
	StatusPending = "pending"
	StatusWarn    = "warn"
	StatusBan     = "ban"
	StatusDismiss = "dismiss"
)

// Admin actions accepted by the report resolution endpoint
const (
	ActionWarn    = "warn"
	ActionBan     = "ban"
	ActionDismiss = "dismiss"
)

// Audit log action types. Append-only vocabulary; renaming one breaks
// existing log rows.
const (
	ActionTypeCreateNews    = "CREATE_NEWS"
	ActionTypeUpdateNews    = "UPDATE_NEWS"
	ActionTypeDeleteNews    = "DELETE_NEWS"
	ActionTypeSendWarning   = "SEND_WARNING"
	ActionTypeBanUser       = "BAN_USER"
	ActionTypeUnbanUser     = "UNBAN_USER"
	ActionTypeWarnUser      = "WARN_USER"
	ActionTypeDismissReport = "DISMISS_REPORT"
	ActionTypeUndoBan       = "UNDO_BAN"
	ActionTypeUndoWarn      = "UNDO_WARN"
)

// Report references a reported user and exactly one of a comment or review.
// Reports are never deleted; resolution only changes the status.
type Report struct {
	ID             int64         `db:"id" json:"id"`
	ReportedUserID int64         `db:"reported_user_id" json:"reported_user_id"`
	CommentID      sql.NullInt64 `db:"comment_id" json:"-"`
	ReviewID       sql.NullInt64 `db:"review_id" json:"-"`
	Reason         string        `db:"reason" json:"reason"`
	Status         string        `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// ReportWithUser is a report joined with the reported user's username
type ReportWithUser struct {
	Report
	ReportedUser string `db:"reported_user" json:"reported_user"`
}

// WarningMessage is one warning issued against a user
type WarningMessage struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminActionLog is one immutable audit entry
type AdminActionLog struct {
	ID             int64         `db:"id" json:"id"`
	AdminID        sql.NullInt64 `db:"admin_id" json:"-"`
	ActionType     string        `db:"action_type" json:"action_type"`
	TargetUsername string        `db:"target_username" json:"target"`
	Detail         string        `db:"detail" json:"detail"`
	CreatedAt      time.Time     `db:"created_at" json:"time"`
}

// AuditEntry is a log row with the admin's username resolved. Admin falls
// back to "Unknown" when the account no longer exists.
type AuditEntry struct {
	Admin      string    `db:"admin" json:"admin"`
	ActionType string    `db:"action_type" json:"action_type"`
	Target     string    `db:"target" json:"target"`
	Detail     string    `db:"detail" json:"detail"`
	CreatedAt  time.Time `db:"created_at" json:"time"`
}

// News is an admin-authored announcement
type News struct {
	ID        int64         `db:"id" json:"id"`
	Title     string        `db:"title" json:"title"`
	Content   string        `db:"content" json:"content"`
	CreatedBy sql.NullInt64 `db:"created_by" json:"-"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// NewsItem is a news row with the author's username resolved, falling back
// to "Admin" when the author is unknown.
type NewsItem struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedBy string    `db:"created_by_name" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the admin user-list row
type UserSummary struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	IsBanned bool   `db:"is_banned" json:"is_banned"`
}
