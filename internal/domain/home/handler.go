package home

import (
	"net/http"

	"github.com/anihub/anihub-api/internal/pkg/response"
)

// Handler serves the public landing page feed
type Handler struct {
	repo Repository
}

// NewHandler creates home handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Feed handles GET /home
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.repo.Feed(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, feed)
}
