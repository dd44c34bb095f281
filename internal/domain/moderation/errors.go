package moderation

import "errors"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNewsNotFound    = errors.New("news not found")
	ErrInvalidAction   = errors.New("invalid action")
	ErrNothingToUndo   = errors.New("nothing to undo for this report")
	ErrAlreadyReported = errors.New("already reported")
)
