package moderation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Tx exposes the write steps available inside a moderation transaction.
// Admin actions combine several of them and must commit or roll back as one.
type Tx interface {
	UpdateReportStatus(reportID int64, status string) error
	CreateWarning(userID int64, message string) error
	DeleteWarningsByUser(userID int64) error
	SetUserBanned(userID int64, banned bool) error
	CreateNotification(userID int64, typ, message string) error
	CreateAuditLog(adminID int64, actionType, targetUsername, detail string) error
	CreateNews(news *News) error
	UpdateNews(newsID int64, title, content string) error
	DeleteNews(newsID int64) error
}

type Repository interface {
	GetReport(ctx context.Context, id int64) (*Report, error)
	ListReports(ctx context.Context) ([]ReportWithUser, error)
	FindOpenReportByComment(ctx context.Context, reportedUserID, commentID int64) (*Report, error)
	FindOpenReportByReview(ctx context.Context, reportedUserID, reviewID int64) (*Report, error)
	CreateReport(ctx context.Context, report *Report) error

	ListAuditLogs(ctx context.Context, limit int) ([]AuditEntry, error)
	ListWarningsByUser(ctx context.Context, userID int64) ([]WarningMessage, error)

	GetNews(ctx context.Context, id int64) (*News, error)
	ListNews(ctx context.Context, limit int) ([]NewsItem, error)

	ListUsers(ctx context.Context) ([]UserSummary, error)

	InTx(ctx context.Context, fn func(Tx) error) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetReport(ctx context.Context, id int64) (*Report, error) {
	var rep Report
	err := r.db.GetContext(ctx, &rep, `SELECT * FROM reports WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &rep, nil
}

func (r *repository) ListReports(ctx context.Context) ([]ReportWithUser, error) {
	var rows []struct {
		Report
		ReportedUser sql.NullString `db:"reported_user"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT r.*, u.username AS reported_user
		FROM reports r
		LEFT JOIN users u ON u.id = r.reported_user_id
		ORDER BY r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	list := make([]ReportWithUser, 0, len(rows))
	for _, row := range rows {
		// a report must always point at an existing user
		if !row.ReportedUser.Valid {
			return nil, ErrUserNotFound
		}
		list = append(list, ReportWithUser{Report: row.Report, ReportedUser: row.ReportedUser.String})
	}
	return list, nil
}

func (r *repository) FindOpenReportByComment(ctx context.Context, reportedUserID, commentID int64) (*Report, error) {
	return r.findOpenReport(ctx, `comment_id`, reportedUserID, commentID)
}

func (r *repository) FindOpenReportByReview(ctx context.Context, reportedUserID, reviewID int64) (*Report, error) {
	return r.findOpenReport(ctx, `review_id`, reportedUserID, reviewID)
}

func (r *repository) findOpenReport(ctx context.Context, column string, reportedUserID, contentID int64) (*Report, error) {
	var rep Report
	query := fmt.Sprintf(`
		SELECT * FROM reports
		WHERE reported_user_id = $1 AND %s = $2 AND status = $3
		LIMIT 1`, column)
	err := r.db.GetContext(ctx, &rep, query, reportedUserID, contentID, StatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open report: %w", err)
	}
	return &rep, nil
}

// CreateReport relies on the partial unique indexes over open reports to
// close the check-then-insert race: a concurrent duplicate surfaces as
// ErrAlreadyReported instead of a second row.
func (r *repository) CreateReport(ctx context.Context, report *Report) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO reports (reported_user_id, comment_id, review_id, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		report.ReportedUserID, report.CommentID, report.ReviewID,
		report.Reason, report.Status, report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrAlreadyReported
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *repository) ListAuditLogs(ctx context.Context, limit int) ([]AuditEntry, error) {
	list := []AuditEntry{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT COALESCE(u.username, 'Unknown') AS admin,
		       l.action_type, l.target_username AS target, l.detail, l.created_at
		FROM admin_action_logs l
		LEFT JOIN users u ON u.id = l.admin_id
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return list, nil
}

func (r *repository) ListWarningsByUser(ctx context.Context, userID int64) ([]WarningMessage, error) {
	list := []WarningMessage{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT * FROM warning_messages
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list warnings: %w", err)
	}
	return list, nil
}

func (r *repository) GetNews(ctx context.Context, id int64) (*News, error) {
	var n News
	err := r.db.GetContext(ctx, &n, `SELECT * FROM news WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get news: %w", err)
	}
	return &n, nil
}

func (r *repository) ListNews(ctx context.Context, limit int) ([]NewsItem, error) {
	list := []NewsItem{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT n.id, n.title, n.content,
		       COALESCE(u.username, 'Admin') AS created_by_name, n.created_at
		FROM news n
		LEFT JOIN users u ON u.id = n.created_by
		ORDER BY n.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return list, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]UserSummary, error) {
	list := []UserSummary{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT id, username, is_banned FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// InTx runs fn inside one transaction. Any error from fn rolls back every
// step, so a warning is never recorded without its audit entry.
func (r *repository) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txRepository{tx: tx, ctx: ctx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepository struct {
	tx  *sqlx.Tx
	ctx context.Context
}

func (t *txRepository) UpdateReportStatus(reportID int64, status string) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE reports SET status = $1 WHERE id = $2`, status, reportID)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if n == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (t *txRepository) CreateWarning(userID int64, message string) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO warning_messages (user_id, message, created_at)
		VALUES ($1, $2, NOW())`, userID, message)
	if err != nil {
		return fmt.Errorf("create warning: %w", err)
	}
	return nil
}

func (t *txRepository) DeleteWarningsByUser(userID int64) error {
	_, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM warning_messages WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete warnings: %w", err)
	}
	return nil
}

func (t *txRepository) SetUserBanned(userID int64, banned bool) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE users SET is_banned = $1 WHERE id = $2`, banned, userID)
	if err != nil {
		return fmt.Errorf("set user banned: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set user banned: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (t *txRepository) CreateNotification(userID int64, typ, message string) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO notifications (user_id, type, message, is_read, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())`, userID, typ, message)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (t *txRepository) CreateAuditLog(adminID int64, actionType, targetUsername, detail string) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO admin_action_logs (admin_id, action_type, target_username, detail, created_at)
		VALUES ($1, $2, $3, $4, NOW())`, adminID, actionType, targetUsername, detail)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (t *txRepository) CreateNews(news *News) error {
	err := t.tx.QueryRowxContext(t.ctx, `
		INSERT INTO news (title, content, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		news.Title, news.Content, news.CreatedBy, news.CreatedAt,
	).Scan(&news.ID)
	if err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

func (t *txRepository) UpdateNews(newsID int64, title, content string) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE news SET title = $1, content = $2 WHERE id = $3`, title, content, newsID)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	if n == 0 {
		return ErrNewsNotFound
	}
	return nil
}

func (t *txRepository) DeleteNews(newsID int64) error {
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM news WHERE id = $1`, newsID)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if n == 0 {
		return ErrNewsNotFound
	}
	return nil
}
