package review

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/validator"
)

// CreateReviewRequest represents a new anime review
type CreateReviewRequest struct {
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Text   string   `json:"text" validate:"required"`
}

// Handler handles review HTTP requests
type Handler struct {
	repo Repository
}

// NewHandler creates review handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListByAnime handles GET /anime/{id}/reviews
func (h *Handler) ListByAnime(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid anime ID")
		return
	}

	reviews, err := h.repo.ListByAnime(r.Context(), animeID)
	if err != nil {
		response.InternalError(w)
		return
	}
	if reviews == nil {
		reviews = []*ReviewWithAuthor{}
	}
	response.OK(w, reviews)
}

// Create handles POST /anime/{id}/reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid anime ID")
		return
	}

	var req CreateReviewRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	review := &Review{
		UserID:    middleware.GetUserID(r.Context()),
		AnimeID:   animeID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if req.Rating != nil {
		review.Rating = sql.NullFloat64{Float64: *req.Rating, Valid: true}
	}

	if err := h.repo.Create(r.Context(), review); err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, review)
}
