package moderation

// ReportCommentRequest reports a forum comment
type ReportCommentRequest struct {
	CommentID int64 `json:"comment_id" validate:"required"`
}

// ReportReviewRequest reports an anime review
type ReportReviewRequest struct {
	ReviewID int64 `json:"review_id" validate:"required"`
}

// ReportActionRequest resolves a report with warn, ban or dismiss
type ReportActionRequest struct {
	Action string `json:"action" validate:"required,report_action"`
}

// BanUserRequest targets a user by username, outside any report
type BanUserRequest struct {
	Username string `json:"username" validate:"required"`
}

// SendWarningRequest sends a free-text warning to a user
type SendWarningRequest struct {
	UserID  int64  `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// CreateNewsRequest posts an announcement
type CreateNewsRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// UpdateNewsRequest patches an announcement; omitted fields keep their value
type UpdateNewsRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content"`
}

// ActionResult is the response of a successful report resolution
type ActionResult struct {
	Message   string `json:"message"`
	RemovedID int64  `json:"removed_id"`
}

// UndoResult is the response of a successful undo
type UndoResult struct {
	Message  string `json:"message"`
	ReportID int64  `json:"report_id"`
}
