package forum

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/validator"
)

// Handler handles forum HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates forum handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListPosts handles GET /posts
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	posts, err := h.service.ListPosts(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	if posts == nil {
		posts = []*PostWithCounts{}
	}
	response.OK(w, posts)
}

// CreatePost handles POST /posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	post, err := h.service.CreatePost(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, post)
}

// ListComments handles GET /posts/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	comments, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		if err == ErrPostNotFound {
			response.NotFound(w, "Post not found")
		} else {
			response.InternalError(w)
		}
		return
	}
	if comments == nil {
		comments = []*PostComment{}
	}
	response.OK(w, comments)
}

// CreateComment handles POST /posts/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	var req CreateCommentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()
	comment, err := h.service.CreateComment(ctx, middleware.GetUserID(ctx), middleware.GetUsername(ctx), postID, &req)
	if err != nil {
		if err == ErrPostNotFound {
			response.NotFound(w, "Post not found")
		} else {
			response.InternalError(w)
		}
		return
	}
	response.Created(w, comment)
}

// LikePost handles POST /posts/{id}/like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	var req LikeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()
	if err := h.service.LikePost(ctx, middleware.GetUserID(ctx), middleware.GetUsername(ctx), postID, *req.IsLike); err != nil {
		if err == ErrPostNotFound {
			response.NotFound(w, "Post not found")
		} else {
			response.InternalError(w)
		}
		return
	}
	response.Message(w, "Vote recorded")
}

// Routes returns forum routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPosts)
	r.Get("/{id}/comments", h.ListComments)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.CreatePost)
		r.Post("/{id}/comments", h.CreateComment)
		r.Post("/{id}/like", h.LikePost)
	})

	return r
}
