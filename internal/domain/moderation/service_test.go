package moderation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/anihub/anihub-api/internal/domain/forum"
	"github.com/anihub/anihub-api/internal/domain/review"
	"github.com/anihub/anihub-api/internal/domain/user"
)

type fakeNotification struct {
	userID  int64
	typ     string
	message string
}

type fakeAuditLog struct {
	adminID    int64
	actionType string
	target     string
	detail     string
}

// fakeStore backs the fake repository and its transactions. Tx methods
// write straight through; the tests exercise outcomes, not rollback.
type fakeStore struct {
	reports       map[int64]*Report
	nextReportID  int64
	warnings      []WarningMessage
	notifications []fakeNotification
	logs          []fakeAuditLog
	users         map[int64]*user.User
	news          map[int64]*News
	nextNewsID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reports: map[int64]*Report{},
		users:   map[int64]*user.User{},
		news:    map[int64]*News{},
	}
}

type fakeModRepo struct {
	store *fakeStore
}

func (f *fakeModRepo) GetReport(ctx context.Context, id int64) (*Report, error) {
	r, ok := f.store.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeModRepo) ListReports(ctx context.Context) ([]ReportWithUser, error) {
	out := []ReportWithUser{}
	for id := f.store.nextReportID; id >= 1; id-- {
		r, ok := f.store.reports[id]
		if !ok {
			continue
		}
		u, ok := f.store.users[r.ReportedUserID]
		if !ok {
			return nil, ErrUserNotFound
		}
		out = append(out, ReportWithUser{Report: *r, ReportedUser: u.Username})
	}
	return out, nil
}

func (f *fakeModRepo) FindOpenReportByComment(ctx context.Context, reportedUserID, commentID int64) (*Report, error) {
	for _, r := range f.store.reports {
		if r.Status == StatusPending && r.ReportedUserID == reportedUserID &&
			r.CommentID.Valid && r.CommentID.Int64 == commentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeModRepo) FindOpenReportByReview(ctx context.Context, reportedUserID, reviewID int64) (*Report, error) {
	for _, r := range f.store.reports {
		if r.Status == StatusPending && r.ReportedUserID == reportedUserID &&
			r.ReviewID.Valid && r.ReviewID.Int64 == reviewID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeModRepo) CreateReport(ctx context.Context, report *Report) error {
	f.store.nextReportID++
	report.ID = f.store.nextReportID
	cp := *report
	f.store.reports[report.ID] = &cp
	return nil
}

func (f *fakeModRepo) ListAuditLogs(ctx context.Context, limit int) ([]AuditEntry, error) {
	out := []AuditEntry{}
	for i := len(f.store.logs) - 1; i >= 0 && len(out) < limit; i-- {
		l := f.store.logs[i]
		name := "Unknown"
		if u, ok := f.store.users[l.adminID]; ok {
			name = u.Username
		}
		out = append(out, AuditEntry{
			Admin:      name,
			ActionType: l.actionType,
			Target:     l.target,
			Detail:     l.detail,
		})
	}
	return out, nil
}

func (f *fakeModRepo) ListWarningsByUser(ctx context.Context, userID int64) ([]WarningMessage, error) {
	out := []WarningMessage{}
	for i := len(f.store.warnings) - 1; i >= 0; i-- {
		if f.store.warnings[i].UserID == userID {
			out = append(out, f.store.warnings[i])
		}
	}
	return out, nil
}

func (f *fakeModRepo) GetNews(ctx context.Context, id int64) (*News, error) {
	n, ok := f.store.news[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (f *fakeModRepo) ListNews(ctx context.Context, limit int) ([]NewsItem, error) {
	out := []NewsItem{}
	for id := f.store.nextNewsID; id >= 1 && len(out) < limit; id-- {
		n, ok := f.store.news[id]
		if !ok {
			continue
		}
		item := NewsItem{ID: n.ID, Title: n.Title, Content: n.Content, CreatedBy: "Admin"}
		if n.CreatedBy.Valid {
			if u, ok := f.store.users[n.CreatedBy.Int64]; ok {
				item.CreatedBy = u.Username
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeModRepo) ListUsers(ctx context.Context) ([]UserSummary, error) {
	out := []UserSummary{}
	for _, u := range f.store.users {
		out = append(out, UserSummary{ID: u.ID, Username: u.Username, IsBanned: u.IsBanned})
	}
	return out, nil
}

func (f *fakeModRepo) InTx(ctx context.Context, fn func(Tx) error) error {
	return fn(&fakeTx{store: f.store})
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) UpdateReportStatus(reportID int64, status string) error {
	r, ok := t.store.reports[reportID]
	if !ok {
		return ErrReportNotFound
	}
	r.Status = status
	return nil
}

func (t *fakeTx) CreateWarning(userID int64, message string) error {
	t.store.warnings = append(t.store.warnings, WarningMessage{
		ID:      int64(len(t.store.warnings) + 1),
		UserID:  userID,
		Message: message,
	})
	return nil
}

func (t *fakeTx) DeleteWarningsByUser(userID int64) error {
	kept := t.store.warnings[:0]
	for _, w := range t.store.warnings {
		if w.UserID != userID {
			kept = append(kept, w)
		}
	}
	t.store.warnings = kept
	return nil
}

func (t *fakeTx) SetUserBanned(userID int64, banned bool) error {
	u, ok := t.store.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

func (t *fakeTx) CreateNotification(userID int64, typ, message string) error {
	t.store.notifications = append(t.store.notifications, fakeNotification{
		userID: userID, typ: typ, message: message,
	})
	return nil
}

func (t *fakeTx) CreateAuditLog(adminID int64, actionType, targetUsername, detail string) error {
	t.store.logs = append(t.store.logs, fakeAuditLog{
		adminID: adminID, actionType: actionType, target: targetUsername, detail: detail,
	})
	return nil
}

func (t *fakeTx) CreateNews(news *News) error {
	t.store.nextNewsID++
	news.ID = t.store.nextNewsID
	cp := *news
	t.store.news[news.ID] = &cp
	return nil
}

func (t *fakeTx) UpdateNews(newsID int64, title, content string) error {
	n, ok := t.store.news[newsID]
	if !ok {
		return ErrNewsNotFound
	}
	n.Title = title
	n.Content = content
	return nil
}

func (t *fakeTx) DeleteNews(newsID int64) error {
	if _, ok := t.store.news[newsID]; !ok {
		return ErrNewsNotFound
	}
	delete(t.store.news, newsID)
	return nil
}

type fakeCommentRepo struct {
	comments map[int64]*forum.PostComment
}

func (f *fakeCommentRepo) GetCommentByID(ctx context.Context, id int64) (*forum.PostComment, error) {
	return f.comments[id], nil
}

type fakeReviewRepo struct {
	reviews map[int64]*review.Review
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id int64) (*review.Review, error) {
	return f.reviews[id], nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := f.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range f.store.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeCache struct {
	invalidated []int64
}

func (f *fakeCache) InvalidateUnread(ctx context.Context, userID int64) {
	f.invalidated = append(f.invalidated, userID)
}

type fakeMailer struct {
	sent chan string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	f.sent <- to
	return nil
}

func newTestService(store *fakeStore) (*Service, *fakeCommentRepo, *fakeReviewRepo, *fakeMailer) {
	comments := &fakeCommentRepo{comments: map[int64]*forum.PostComment{}}
	reviews := &fakeReviewRepo{reviews: map[int64]*review.Review{}}
	mailer := &fakeMailer{sent: make(chan string, 1)}
	svc := NewService(&fakeModRepo{store: store}, comments, reviews, &fakeUserRepo{store: store}, &fakeCache{}, mailer)
	return svc, comments, reviews, mailer
}

func addUser(store *fakeStore, id int64, username string, email string) *user.User {
	u := &user.User{ID: id, Username: username}
	if email != "" {
		u.Email = sql.NullString{String: email, Valid: true}
	}
	store.users[id] = u
	return u
}

func TestSubmitCommentReport_Deduplicates(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "alice", "")
	svc, comments, _, _ := newTestService(store)
	comments.comments[10] = &forum.PostComment{ID: 10, UserID: 1}

	created, err := svc.SubmitCommentReport(context.Background(), 10)
	if err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	if !created {
		t.Fatal("expected first report to be created")
	}

	created, err = svc.SubmitCommentReport(context.Background(), 10)
	if err != nil {
		t.Fatalf("second report failed: %v", err)
	}
	if created {
		t.Fatal("expected duplicate report to be absorbed")
	}

	if len(store.reports) != 1 {
		t.Fatalf("expected exactly one report row, got %d", len(store.reports))
	}
	rep := store.reports[1]
	if rep.Reason != "Inappropriate comment" {
		t.Fatalf("unexpected reason: %q", rep.Reason)
	}
	if rep.Status != StatusPending {
		t.Fatalf("expected pending status, got %q", rep.Status)
	}
}

func TestSubmitCommentReport_CommentMissing(t *testing.T) {
	store := newFakeStore()
	svc, _, _, _ := newTestService(store)

	if _, err := svc.SubmitCommentReport(context.Background(), 99); err != ErrCommentNotFound {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestSubmitReviewReport_Deduplicates(t *testing.T) {
	store := newFakeStore()
	addUser(store, 2, "bob", "")
	svc, _, reviews, _ := newTestService(store)
	reviews.reviews[5] = &review.Review{ID: 5, UserID: 2}

	if _, err := svc.SubmitReviewReport(context.Background(), 5); err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	created, err := svc.SubmitReviewReport(context.Background(), 5)
	if err != nil {
		t.Fatalf("second report failed: %v", err)
	}
	if created || len(store.reports) != 1 {
		t.Fatalf("expected one absorbed duplicate, created=%v rows=%d", created, len(store.reports))
	}
	if store.reports[1].Reason != "Inappropriate review" {
		t.Fatalf("unexpected reason: %q", store.reports[1].Reason)
	}
}

func reportFor(store *fakeStore, userID int64) *Report {
	store.nextReportID++
	r := &Report{
		ID:             store.nextReportID,
		ReportedUserID: userID,
		Status:         StatusPending,
		Reason:         "Inappropriate comment",
		CreatedAt:      time.Now().UTC(),
	}
	store.reports[r.ID] = r
	return r
}

func TestApplyAction_BanThenUndo(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	target := addUser(store, 2, "troll", "")
	rep := reportFor(store, 2)
	svc, _, _, _ := newTestService(store)

	result, err := svc.ApplyAction(context.Background(), 1, rep.ID, ActionBan)
	if err != nil {
		t.Fatalf("ban action failed: %v", err)
	}
	if result.Message != "✅ Report baned." || result.RemovedID != rep.ID {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !target.IsBanned {
		t.Fatal("expected target to be banned")
	}
	if store.reports[rep.ID].Status != StatusBan {
		t.Fatalf("expected status ban, got %q", store.reports[rep.ID].Status)
	}
	if len(store.notifications) != 1 || store.notifications[0].message != banNotice {
		t.Fatalf("unexpected notifications: %+v", store.notifications)
	}
	if len(store.logs) != 1 || store.logs[0].actionType != ActionTypeBanUser {
		t.Fatalf("unexpected logs: %+v", store.logs)
	}

	undo, err := svc.UndoAction(context.Background(), 1, rep.ID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if undo.Message != "Undo successful" || undo.ReportID != rep.ID {
		t.Fatalf("unexpected undo result: %+v", undo)
	}
	if target.IsBanned {
		t.Fatal("expected ban flag to be restored")
	}
	if store.reports[rep.ID].Status != StatusPending {
		t.Fatalf("expected status pending after undo, got %q", store.reports[rep.ID].Status)
	}
	if store.logs[len(store.logs)-1].actionType != ActionTypeUndoBan {
		t.Fatalf("expected UNDO_BAN log, got %+v", store.logs)
	}

	if _, err := svc.UndoAction(context.Background(), 1, rep.ID); err != ErrNothingToUndo {
		t.Fatalf("expected ErrNothingToUndo on second undo, got %v", err)
	}
}

func TestApplyAction_WarnThenUndoDeletesAllWarnings(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	addUser(store, 2, "troll", "")
	rep := reportFor(store, 2)
	svc, _, _, _ := newTestService(store)

	// unrelated warning issued before this report
	store.warnings = append(store.warnings, WarningMessage{ID: 99, UserID: 2, Message: "older warning"})

	if _, err := svc.ApplyAction(context.Background(), 1, rep.ID, ActionWarn); err != nil {
		t.Fatalf("warn action failed: %v", err)
	}
	if len(store.warnings) != 2 {
		t.Fatalf("expected two warnings, got %d", len(store.warnings))
	}
	if store.logs[len(store.logs)-1].detail != "Issued warning" {
		t.Fatalf("unexpected log detail: %+v", store.logs)
	}

	if _, err := svc.UndoAction(context.Background(), 1, rep.ID); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	// the undo wipes every warning for the user, the unrelated one included
	if len(store.warnings) != 0 {
		t.Fatalf("expected all warnings removed, got %d", len(store.warnings))
	}
	if store.reports[rep.ID].Status != StatusPending {
		t.Fatalf("expected status pending, got %q", store.reports[rep.ID].Status)
	}
}

func TestApplyAction_Dismiss(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	addUser(store, 2, "troll", "")
	rep := reportFor(store, 2)
	svc, _, _, _ := newTestService(store)

	if _, err := svc.ApplyAction(context.Background(), 1, rep.ID, ActionDismiss); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	if len(store.notifications) != 0 {
		t.Fatal("dismiss must not notify anyone")
	}
	if store.reports[rep.ID].Status != StatusDismiss {
		t.Fatalf("expected status dismiss, got %q", store.reports[rep.ID].Status)
	}
	last := store.logs[len(store.logs)-1]
	if last.actionType != ActionTypeDismissReport {
		t.Fatalf("expected DISMISS_REPORT log, got %+v", last)
	}

	// dismissed reports cannot be undone
	if _, err := svc.UndoAction(context.Background(), 1, rep.ID); err != ErrNothingToUndo {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestApplyAction_InvalidInputs(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	addUser(store, 2, "troll", "")
	rep := reportFor(store, 2)
	svc, _, _, _ := newTestService(store)

	if _, err := svc.ApplyAction(context.Background(), 1, rep.ID, "obliterate"); err != ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := svc.ApplyAction(context.Background(), 1, 404, ActionWarn); err != ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestBanUserAndUnbanUser(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	alice := addUser(store, 2, "alice", "")
	svc, _, _, _ := newTestService(store)

	if err := svc.BanUser(context.Background(), 1, "alice"); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	if !alice.IsBanned {
		t.Fatal("expected alice to be banned")
	}
	if len(store.notifications) != 1 || store.notifications[0].userID != 2 {
		t.Fatalf("expected one ban notification for alice, got %+v", store.notifications)
	}
	if store.logs[0].actionType != ActionTypeBanUser || store.logs[0].target != "alice" {
		t.Fatalf("unexpected audit entry: %+v", store.logs[0])
	}

	if err := svc.UnbanUser(context.Background(), 1, "alice"); err != nil {
		t.Fatalf("unban failed: %v", err)
	}
	if alice.IsBanned {
		t.Fatal("expected ban flag cleared")
	}
	if store.logs[1].actionType != ActionTypeUnbanUser {
		t.Fatalf("expected UNBAN_USER entry, got %+v", store.logs[1])
	}
	// the ban notification is never retracted
	if len(store.notifications) != 1 {
		t.Fatalf("expected notification history to be append-only, got %d rows", len(store.notifications))
	}

	if err := svc.BanUser(context.Background(), 1, "nobody"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSendWarning(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	addUser(store, 2, "alice", "alice@example.com")
	svc, _, _, mailer := newTestService(store)

	username, err := svc.SendWarning(context.Background(), 1, 2, "tone it down")
	if err != nil {
		t.Fatalf("send warning failed: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected username alice, got %q", username)
	}
	if len(store.warnings) != 1 || store.warnings[0].Message != "tone it down" {
		t.Fatalf("unexpected warnings: %+v", store.warnings)
	}
	if len(store.notifications) != 1 || store.notifications[0].message != "⚠️ Admin Warning: tone it down" {
		t.Fatalf("unexpected notifications: %+v", store.notifications)
	}
	if store.logs[0].actionType != ActionTypeSendWarning || store.logs[0].detail != "tone it down" {
		t.Fatalf("unexpected audit entry: %+v", store.logs[0])
	}

	select {
	case to := <-mailer.sent:
		if to != "alice@example.com" {
			t.Fatalf("warning email sent to %q", to)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a warning email")
	}
}

func TestListUserWarnings(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	addUser(store, 2, "alice", "")
	svc, _, _, _ := newTestService(store)

	if _, err := svc.SendWarning(context.Background(), 1, 2, "first"); err != nil {
		t.Fatalf("send warning failed: %v", err)
	}
	if _, err := svc.SendWarning(context.Background(), 1, 2, "second"); err != nil {
		t.Fatalf("send warning failed: %v", err)
	}

	warnings, err := svc.ListUserWarnings(context.Background(), 2)
	if err != nil {
		t.Fatalf("list warnings failed: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	if warnings[0].Message != "second" || warnings[1].Message != "first" {
		t.Fatalf("expected newest first, got %+v", warnings)
	}

	if _, err := svc.ListUserWarnings(context.Background(), 99); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}

func TestNewsLifecycle(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "admin", "")
	svc, _, _, _ := newTestService(store)

	news, err := svc.CreateNews(context.Background(), 1, "admin", "Maintenance", "Downtime tonight")
	if err != nil {
		t.Fatalf("create news failed: %v", err)
	}
	if store.logs[0].actionType != ActionTypeCreateNews || store.logs[0].detail != "Title: Maintenance" {
		t.Fatalf("unexpected audit entry: %+v", store.logs[0])
	}

	title := "Maintenance window"
	if err := svc.UpdateNews(context.Background(), 1, "admin", news.ID, UpdateNewsRequest{Title: &title}); err != nil {
		t.Fatalf("update news failed: %v", err)
	}
	if store.news[news.ID].Title != "Maintenance window" || store.news[news.ID].Content != "Downtime tonight" {
		t.Fatalf("partial update went wrong: %+v", store.news[news.ID])
	}

	if err := svc.DeleteNews(context.Background(), 1, "admin", news.ID); err != nil {
		t.Fatalf("delete news failed: %v", err)
	}
	if len(store.news) != 0 {
		t.Fatal("expected news to be deleted")
	}
	if err := svc.DeleteNews(context.Background(), 1, "admin", news.ID); err != ErrNewsNotFound {
		t.Fatalf("expected ErrNewsNotFound, got %v", err)
	}
}
