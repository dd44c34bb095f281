package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anihub/anihub-api/internal/domain/forum"
	"github.com/anihub/anihub-api/internal/domain/notification"
	"github.com/anihub/anihub-api/internal/domain/review"
	"github.com/anihub/anihub-api/internal/domain/user"
)

const (
	auditLogLimit = 50
	newsFeedLimit = 10

	warnMessage = "You have been warned for inappropriate behavior."
	warnNotice  = "⚠️ You received a warning for inappropriate behavior."
	banNotice   = "🚫 You have been banned from the platform."
)

// CommentRepository is the slice of the forum repository moderation needs
type CommentRepository interface {
	GetCommentByID(ctx context.Context, id int64) (*forum.PostComment, error)
}

// ReviewRepository is the slice of the review repository moderation needs
type ReviewRepository interface {
	GetByID(ctx context.Context, id int64) (*review.Review, error)
}

// UserRepository is the slice of the user repository moderation needs
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// Cache drops per-user cached notification counters after moderation
// writes notification rows inside its own transaction.
type Cache interface {
	InvalidateUnread(ctx context.Context, userID int64)
}

// Mailer delivers warning emails. Failures are logged, never propagated.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Service implements report handling, admin actions with undo and the
// admin audit log.
type Service struct {
	repo     Repository
	comments CommentRepository
	reviews  ReviewRepository
	users    UserRepository
	cache    Cache
	mailer   Mailer
}

func NewService(repo Repository, comments CommentRepository, reviews ReviewRepository, users UserRepository, cache Cache, mailer Mailer) *Service {
	return &Service{
		repo:     repo,
		comments: comments,
		reviews:  reviews,
		users:    users,
		cache:    cache,
		mailer:   mailer,
	}
}

// SubmitCommentReport files a report against a comment's author. Reporting
// already-reported content succeeds without creating a second row; the
// returned flag says whether a new report was created.
func (s *Service) SubmitCommentReport(ctx context.Context, commentID int64) (bool, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment == nil {
		return false, ErrCommentNotFound
	}

	existing, err := s.repo.FindOpenReportByComment(ctx, comment.UserID, commentID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	report := &Report{
		ReportedUserID: comment.UserID,
		Reason:         "Inappropriate comment",
		Status:         StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	report.CommentID.Int64 = commentID
	report.CommentID.Valid = true

	if err := s.repo.CreateReport(ctx, report); err != nil {
		// lost the race to another identical report; same outcome for the caller
		if err == ErrAlreadyReported {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SubmitReviewReport files a report against a review's author, with the
// same dedup behavior as comment reports.
func (s *Service) SubmitReviewReport(ctx context.Context, reviewID int64) (bool, error) {
	rev, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return false, err
	}
	if rev == nil {
		return false, ErrReviewNotFound
	}

	existing, err := s.repo.FindOpenReportByReview(ctx, rev.UserID, reviewID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	report := &Report{
		ReportedUserID: rev.UserID,
		Reason:         "Inappropriate review",
		Status:         StatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	report.ReviewID.Int64 = reviewID
	report.ReviewID.Valid = true

	if err := s.repo.CreateReport(ctx, report); err != nil {
		if err == ErrAlreadyReported {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListReports returns every report newest-first with the reported username
func (s *Service) ListReports(ctx context.Context) ([]ReportWithUser, error) {
	return s.repo.ListReports(ctx)
}

// ApplyAction resolves a report with warn, ban or dismiss. The warning or
// ban flag, the notification, the audit entry and the status change commit
// as one transaction.
func (s *Service) ApplyAction(ctx context.Context, adminID, reportID int64, action string) (*ActionResult, error) {
	if action != ActionWarn && action != ActionBan && action != ActionDismiss {
		return nil, ErrInvalidAction
	}

	report, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	target, err := s.users.GetByID(ctx, report.ReportedUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	err = s.repo.InTx(ctx, func(tx Tx) error {
		switch action {
		case ActionWarn:
			if err := tx.CreateWarning(target.ID, warnMessage); err != nil {
				return err
			}
			if err := tx.CreateNotification(target.ID, string(notification.TypeAdminWarning), warnNotice); err != nil {
				return err
			}
			if err := tx.CreateAuditLog(adminID, ActionTypeWarnUser, target.Username, "Issued warning"); err != nil {
				return err
			}
		case ActionBan:
			if err := tx.SetUserBanned(target.ID, true); err != nil {
				return err
			}
			if err := tx.CreateNotification(target.ID, string(notification.TypeBanned), banNotice); err != nil {
				return err
			}
			if err := tx.CreateAuditLog(adminID, ActionTypeBanUser, target.Username, "User banned"); err != nil {
				return err
			}
		case ActionDismiss:
			detail := fmt.Sprintf("Report %d dismissed", report.ID)
			if err := tx.CreateAuditLog(adminID, ActionTypeDismissReport, target.Username, detail); err != nil {
				return err
			}
		}
		return tx.UpdateReportStatus(report.ID, action)
	})
	if err != nil {
		return nil, err
	}

	if action != ActionDismiss {
		s.cache.InvalidateUnread(ctx, target.ID)
	}
	return &ActionResult{
		Message:   fmt.Sprintf("✅ Report %sed.", action),
		RemovedID: report.ID,
	}, nil
}

// UndoAction reverses a warn or ban resolution and resets the report to
// pending. Undoing a warn deletes every warning on record for the user,
// not only the one this report produced.
func (s *Service) UndoAction(ctx context.Context, adminID, reportID int64) (*UndoResult, error) {
	report, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	target, err := s.users.GetByID(ctx, report.ReportedUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	switch report.Status {
	case StatusBan:
		err = s.repo.InTx(ctx, func(tx Tx) error {
			if err := tx.SetUserBanned(target.ID, false); err != nil {
				return err
			}
			detail := fmt.Sprintf("Ban reverted for report #%d", report.ID)
			if err := tx.CreateAuditLog(adminID, ActionTypeUndoBan, target.Username, detail); err != nil {
				return err
			}
			return tx.UpdateReportStatus(report.ID, StatusPending)
		})
	case StatusWarn:
		err = s.repo.InTx(ctx, func(tx Tx) error {
			if err := tx.DeleteWarningsByUser(target.ID); err != nil {
				return err
			}
			detail := fmt.Sprintf("Warning removed for report #%d", report.ID)
			if err := tx.CreateAuditLog(adminID, ActionTypeUndoWarn, target.Username, detail); err != nil {
				return err
			}
			return tx.UpdateReportStatus(report.ID, StatusPending)
		})
	default:
		return nil, ErrNothingToUndo
	}
	if err != nil {
		return nil, err
	}

	return &UndoResult{Message: "Undo successful", ReportID: report.ID}, nil
}

// BanUser bans by username, outside any report flow
func (s *Service) BanUser(ctx context.Context, adminID int64, username string) error {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	err = s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.SetUserBanned(target.ID, true); err != nil {
			return err
		}
		if err := tx.CreateNotification(target.ID, string(notification.TypeBanned), banNotice); err != nil {
			return err
		}
		return tx.CreateAuditLog(adminID, ActionTypeBanUser, target.Username, "User banned")
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateUnread(ctx, target.ID)
	return nil
}

// UnbanUser clears the ban flag. The earlier ban notification stays; no
// unban notification is sent.
func (s *Service) UnbanUser(ctx context.Context, adminID int64, username string) error {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	return s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.SetUserBanned(target.ID, false); err != nil {
			return err
		}
		return tx.CreateAuditLog(adminID, ActionTypeUnbanUser, target.Username, "User unbanned")
	})
}

// SendWarning records a free-text warning and notifies the user. Email
// delivery is fire-and-forget; a mail failure never rolls the warning back.
func (s *Service) SendWarning(ctx context.Context, adminID, userID int64, message string) (string, error) {
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", ErrUserNotFound
	}

	err = s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.CreateWarning(target.ID, message); err != nil {
			return err
		}
		if err := tx.CreateNotification(target.ID, string(notification.TypeAdminWarning), "⚠️ Admin Warning: "+message); err != nil {
			return err
		}
		return tx.CreateAuditLog(adminID, ActionTypeSendWarning, target.Username, message)
	})
	if err != nil {
		return "", err
	}

	s.cache.InvalidateUnread(ctx, target.ID)

	if s.mailer != nil && target.Email.Valid {
		go func(to, body string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			html := fmt.Sprintf("<p>You have received a warning from the moderation team:</p><p>%s</p>", body)
			if err := s.mailer.Send(sendCtx, to, "Moderation warning", html); err != nil {
				log.Error().Err(err).Str("to", to).Msg("Failed to send warning email")
			}
		}(target.Email.String, message)
	}

	return target.Username, nil
}

// ListAuditLogs returns the newest audit entries with admin names resolved
func (s *Service) ListAuditLogs(ctx context.Context) ([]AuditEntry, error) {
	return s.repo.ListAuditLogs(ctx, auditLogLimit)
}

// ListUsers returns the admin user-list
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	return s.repo.ListUsers(ctx)
}

// ListUserWarnings returns a user's warning history, newest first
func (s *Service) ListUserWarnings(ctx context.Context, userID int64) ([]WarningMessage, error) {
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	return s.repo.ListWarningsByUser(ctx, userID)
}

// CreateNews publishes an announcement and logs it
func (s *Service) CreateNews(ctx context.Context, adminID int64, adminUsername, title, content string) (*News, error) {
	news := &News{
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	news.CreatedBy.Int64 = adminID
	news.CreatedBy.Valid = true

	err := s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.CreateNews(news); err != nil {
			return err
		}
		return tx.CreateAuditLog(adminID, ActionTypeCreateNews, adminUsername, "Title: "+title)
	})
	if err != nil {
		return nil, err
	}
	return news, nil
}

// UpdateNews patches an announcement; nil fields keep their current value
func (s *Service) UpdateNews(ctx context.Context, adminID int64, adminUsername string, newsID int64, req UpdateNewsRequest) error {
	news, err := s.repo.GetNews(ctx, newsID)
	if err != nil {
		return err
	}
	if news == nil {
		return ErrNewsNotFound
	}

	title, content := news.Title, news.Content
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}

	return s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.UpdateNews(newsID, title, content); err != nil {
			return err
		}
		detail := fmt.Sprintf("Updated ID %d", newsID)
		return tx.CreateAuditLog(adminID, ActionTypeUpdateNews, adminUsername, detail)
	})
}

// DeleteNews removes an announcement and logs it
func (s *Service) DeleteNews(ctx context.Context, adminID int64, adminUsername string, newsID int64) error {
	return s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.DeleteNews(newsID); err != nil {
			return err
		}
		detail := fmt.Sprintf("Deleted ID %d", newsID)
		return tx.CreateAuditLog(adminID, ActionTypeDeleteNews, adminUsername, detail)
	})
}

// ListNews returns the public news feed, newest first
func (s *Service) ListNews(ctx context.Context) ([]NewsItem, error) {
	return s.repo.ListNews(ctx, newsFeedLimit)
}
