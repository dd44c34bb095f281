package friendship

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/validator"
)

// PostMessageRequest carries the message text
type PostMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Handler handles friend graph and messaging HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates friendship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendRequest handles POST /friend-request/{target_id}
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "target_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.service.SendRequest(r.Context(), actorID, targetID); err != nil {
		switch err {
		case ErrCannotFriendSelf:
			response.BadRequest(w, "You cannot friend yourself")
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrRequestAlreadySent:
			response.Conflict(w, "Friend request already sent")
		case ErrAlreadyFriends:
			response.Conflict(w, "Already friends")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Message(w, "Friend request sent")
}

// AcceptRequest handles POST /friend-request/{request_id}/accept
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "request_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.service.AcceptRequest(r.Context(), requestID, actorID); err != nil {
		switch err {
		case ErrRequestNotFound:
			response.NotFound(w, "Friend request not found")
		case ErrNotReceiver:
			response.Forbidden(w, "Unauthorized")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Message(w, "Friend request accepted")
}

// RejectRequest handles POST /friend-request/{request_id}/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "request_id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.service.RejectRequest(r.Context(), requestID, actorID); err != nil {
		switch err {
		case ErrRequestNotFound:
			response.NotFound(w, "Friend request not found")
		case ErrNotReceiver:
			response.Forbidden(w, "Unauthorized")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Message(w, "Friend request rejected")
}

// ListIncomingRequests handles GET /friend-requests
func (h *Handler) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	requests, err := h.service.ListIncomingRequests(r.Context(), actorID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, requests)
}

// ListFriendUsernames handles GET /friends
func (h *Handler) ListFriendUsernames(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	names, err := h.service.ListFriendUsernames(r.Context(), actorID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, names)
}

// ListFriends handles GET /friends/list
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	friends, err := h.service.ListFriends(r.Context(), actorID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, friends)
}

// GetConversation handles GET /messages/{username}
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	actorID := middleware.GetUserID(r.Context())
	messages, err := h.service.GetConversation(r.Context(), actorID, username)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrNotFriends:
			response.Forbidden(w, "You are not friends")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, messages)
}

// PostMessage handles POST /messages/{username}
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req PostMessageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.BadRequest(w, "Text is required")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.service.PostMessage(r.Context(), actorID, username, req.Text); err != nil {
		switch err {
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrNotFriends:
			response.Forbidden(w, "You are not friends")
		default:
			response.InternalError(w)
		}
		return
	}
	response.Message(w, "Sent")
}

// ListConversations handles GET /conversations
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	conversations, err := h.service.ListConversations(r.Context(), actorID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, conversations)
}

// SearchUsers handles GET /user/search?query=
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.SearchUsers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, results)
}

// Routes serves the friend graph, messaging and user search, all
// authenticated.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/friend-request/{target_id}", h.SendRequest)
	r.Post("/friend-request/{request_id}/accept", h.AcceptRequest)
	r.Post("/friend-request/{request_id}/reject", h.RejectRequest)
	r.Get("/friend-requests", h.ListIncomingRequests)

	r.Get("/friends", h.ListFriendUsernames)
	r.Get("/friends/list", h.ListFriends)

	r.Get("/messages/{username}", h.GetConversation)
	r.Post("/messages/{username}", h.PostMessage)
	r.Get("/conversations", h.ListConversations)

	r.Get("/user/search", h.SearchUsers)

	return r
}
