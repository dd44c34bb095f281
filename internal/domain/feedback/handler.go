package feedback

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
)

// SubmitRequest carries a development feedback submission
type SubmitRequest struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// Handler handles development feedback submission and the admin view
type Handler struct {
	repo Repository
}

// NewHandler creates feedback handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Submit handles POST /feedback/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Topic == "" || req.Message == "" {
		response.BadRequest(w, "Both topic and message are required.")
		return
	}

	fb := &Feedback{
		UserID:    middleware.GetUserID(r.Context()),
		Topic:     req.Topic,
		Content:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.Create(r.Context(), fb); err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, map[string]string{"message": "Feedback submitted successfully."})
}

// ListAll handles GET /admin/dev-feedback
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

// Routes wires authenticated feedback submission
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Post("/submit", h.Submit)

	return r
}
