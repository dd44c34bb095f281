package anime

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/validator"
)

// AddToCollectionRequest adds an anime to one of the fixed collections
type AddToCollectionRequest struct {
	AnimeID        int64  `json:"anime_id" validate:"required"`
	CollectionName string `json:"collection_name" validate:"required,collection_name"`
}

// Handler handles anime catalog and collection HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates anime handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /anime with linear filters
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Query:  q.Get("q"),
		Genre:  q.Get("genre"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
	}
	if y := q.Get("year"); y != "" {
		v, err := strconv.ParseInt(y, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid year")
			return
		}
		filters.Year = v
	}
	if l := q.Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		filters.Limit = v
	}
	if o := q.Get("offset"); o != "" {
		v, err := strconv.Atoi(o)
		if err != nil {
			response.BadRequest(w, "Invalid offset")
			return
		}
		filters.Offset = v
	}

	list, err := h.service.List(r.Context(), filters)
	if err != nil {
		response.InternalError(w)
		return
	}

	views := make([]*View, 0, len(list))
	for i := range list {
		views = append(views, list[i].ToView())
	}
	response.OK(w, views)
}

// Get handles GET /anime/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid anime ID")
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.NotFound(w, "Anime not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, a.ToView())
}

// AddToCollection handles POST /anime/collections
func (h *Handler) AddToCollection(w http.ResponseWriter, r *http.Request) {
	var req AddToCollectionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	entry, err := h.service.AddToCollection(r.Context(), userID, req.AnimeID, req.CollectionName)
	if err != nil {
		switch err {
		case ErrNotFound:
			response.NotFound(w, "Anime not found")
		case ErrAlreadyInList:
			response.Conflict(w, "Anime already in this collection")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Created(w, entry)
}

// RemoveFromCollection handles DELETE /anime/collections/{name}/{anime_id}
func (h *Handler) RemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.ParseInt(chi.URLParam(r, "anime_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid anime ID")
		return
	}
	collection := chi.URLParam(r, "name")

	userID := middleware.GetUserID(r.Context())
	if err := h.service.RemoveFromCollection(r.Context(), userID, animeID, collection); err != nil {
		if err == ErrEntryNotFound {
			response.NotFound(w, "Collection entry not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.Message(w, "Removed from collection")
}

// ListCollection handles GET /anime/collections/{name}
func (h *Handler) ListCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "name")

	userID := middleware.GetUserID(r.Context())
	list, err := h.service.ListCollection(r.Context(), userID, collection)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, list)
}

// Routes mixes the public catalog with authenticated collection management
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/collections", h.AddToCollection)
		r.Get("/collections/{name}", h.ListCollection)
		r.Delete("/collections/{name}/{anime_id}", h.RemoveFromCollection)
	})

	r.Get("/{id}", h.Get)

	return r
}
