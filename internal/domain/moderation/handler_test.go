package moderation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/domain/forum"
)

func newTestRouter(store *fakeStore) (chi.Router, *fakeCommentRepo) {
	svc, comments, _, _ := newTestService(store)
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Post("/report/comment", h.ReportComment)
	r.Post("/admin/reports/{id}/action", h.HandleReportAction)
	r.Post("/admin/reports/{id}/undo", h.UndoReportAction)
	return r, comments
}

func TestReportComment_MissingID(t *testing.T) {
	router, _ := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/report/comment", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["error"] != "Missing comment ID" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestReportComment_DuplicateReturnsOK(t *testing.T) {
	store := newFakeStore()
	addUser(store, 1, "troll", "")
	router, comments := newTestRouter(store)
	comments.comments[7] = &forum.PostComment{ID: 7, UserID: 1}

	for i, want := range []string{"Comment reported successfully", "Already reported."} {
		req := httptest.NewRequest(http.MethodPost, "/report/comment", strings.NewReader(`{"comment_id": 7}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body["message"] != want {
			t.Fatalf("attempt %d: got %q, want %q", i, body["message"], want)
		}
	}
	if len(store.reports) != 1 {
		t.Fatalf("expected one report row, got %d", len(store.reports))
	}
}

func TestHandleReportAction_InvalidAction(t *testing.T) {
	store := newFakeStore()
	addUser(store, 2, "troll", "")
	reportFor(store, 2)
	router, _ := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/admin/reports/1/action", strings.NewReader(`{"action": "nuke"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleReportAction_UnknownReport(t *testing.T) {
	router, _ := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/admin/reports/42/action", strings.NewReader(`{"action": "warn"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUndoReportAction_PendingReport(t *testing.T) {
	store := newFakeStore()
	addUser(store, 2, "troll", "")
	reportFor(store, 2)
	router, _ := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/admin/reports/1/undo", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pending report, got %d", rr.Code)
	}
}
