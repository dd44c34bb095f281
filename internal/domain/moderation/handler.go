package moderation

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/validator"
)

// Handler handles report submission and the admin moderation console
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ReportComment handles POST /report/comment
func (h *Handler) ReportComment(w http.ResponseWriter, r *http.Request) {
	var req ReportCommentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.CommentID == 0 {
		response.BadRequest(w, "Missing comment ID")
		return
	}

	created, err := h.service.SubmitCommentReport(r.Context(), req.CommentID)
	if err != nil {
		if err == ErrCommentNotFound {
			response.NotFound(w, "Comment not found")
			return
		}
		response.InternalError(w)
		return
	}
	if !created {
		response.Message(w, "Already reported.")
		return
	}
	response.Message(w, "Comment reported successfully")
}

// ReportReview handles POST /report/review
func (h *Handler) ReportReview(w http.ResponseWriter, r *http.Request) {
	var req ReportReviewRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ReviewID == 0 {
		response.BadRequest(w, "Missing review_id")
		return
	}

	created, err := h.service.SubmitReviewReport(r.Context(), req.ReviewID)
	if err != nil {
		if err == ErrReviewNotFound {
			response.NotFound(w, "Review not found")
			return
		}
		response.InternalError(w)
		return
	}
	if !created {
		response.Message(w, "Already reported.")
		return
	}
	response.Message(w, "Review reported successfully")
}

// ListReports handles GET /admin/reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context())
	if err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, reports)
}

// HandleReportAction handles POST /admin/reports/{id}/action
func (h *Handler) HandleReportAction(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req ReportActionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.BadRequest(w, "Invalid action")
		return
	}

	adminID := middleware.GetUserID(r.Context())
	result, err := h.service.ApplyAction(r.Context(), adminID, reportID, req.Action)
	if err != nil {
		switch err {
		case ErrInvalidAction:
			response.BadRequest(w, "Invalid action")
		case ErrReportNotFound:
			response.NotFound(w, "Report not found")
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, result)
}

// UndoReportAction handles POST /admin/reports/{id}/undo
func (h *Handler) UndoReportAction(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	adminID := middleware.GetUserID(r.Context())
	result, err := h.service.UndoAction(r.Context(), adminID, reportID)
	if err != nil {
		switch err {
		case ErrReportNotFound:
			response.NotFound(w, "Report not found")
		case ErrUserNotFound:
			response.NotFound(w, "User not found")
		case ErrNothingToUndo:
			response.BadRequest(w, "Nothing to undo for this report.")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, result)
}

// BanUser handles POST /admin/ban-user
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	var req BanUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := middleware.GetUserID(r.Context())
	if err := h.service.BanUser(r.Context(), adminID, req.Username); err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.Message(w, "User "+req.Username+" has been banned.")
}

// UnbanUser handles POST /admin/unban-user
func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	var req BanUserRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := middleware.GetUserID(r.Context())
	if err := h.service.UnbanUser(r.Context(), adminID, req.Username); err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.Message(w, "User "+req.Username+" has been unbanned.")
}

// SendWarning handles POST /admin/send-warning
func (h *Handler) SendWarning(w http.ResponseWriter, r *http.Request) {
	var req SendWarningRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.BadRequest(w, "User ID and warning message are required.")
		return
	}

	adminID := middleware.GetUserID(r.Context())
	username, err := h.service.SendWarning(r.Context(), adminID, req.UserID, req.Message)
	if err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found.")
			return
		}
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]string{
		"message": "Warning sent to " + username,
	})
}

// ListLogs handles GET /admin/logs
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListAuditLogs(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, logs)
}

// ListUsers handles GET /admin/user-list
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, users)
}

// ListUserWarnings handles GET /admin/users/{id}/warnings
func (h *Handler) ListUserWarnings(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	warnings, err := h.service.ListUserWarnings(r.Context(), userID)
	if err != nil {
		if err == ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, warnings)
}

// CreateNews handles POST /admin/news
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.BadRequest(w, "Title and content required")
		return
	}

	adminID := middleware.GetUserID(r.Context())
	adminName := middleware.GetUsername(r.Context())
	if _, err := h.service.CreateNews(r.Context(), adminID, adminName, req.Title, req.Content); err != nil {
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]string{
		"message": "News posted successfully",
	})
}

// UpdateNews handles PUT /admin/news/{id}
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	newsID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid news ID")
		return
	}

	var req UpdateNewsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := middleware.GetUserID(r.Context())
	adminName := middleware.GetUsername(r.Context())
	if err := h.service.UpdateNews(r.Context(), adminID, adminName, newsID, req); err != nil {
		if err == ErrNewsNotFound {
			response.NotFound(w, "News not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.Message(w, "News updated")
}

// DeleteNews handles DELETE /admin/news/{id}
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	newsID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid news ID")
		return
	}

	adminID := middleware.GetUserID(r.Context())
	adminName := middleware.GetUsername(r.Context())
	if err := h.service.DeleteNews(r.Context(), adminID, adminName, newsID); err != nil {
		if err == ErrNewsNotFound {
			response.NotFound(w, "News not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.Message(w, "News deleted")
}

// ListNews handles GET /news
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.service.ListNews(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, news)
}

// ReportRoutes serves authenticated report submission
func (h *Handler) ReportRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/comment", h.ReportComment)
	r.Post("/review", h.ReportReview)
	return r
}

// AdminRoutes serves the moderation console, admin-only throughout
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Get("/reports", h.ListReports)
	r.Post("/reports/{id}/action", h.HandleReportAction)
	r.Post("/reports/{id}/undo", h.UndoReportAction)
	r.Post("/ban-user", h.BanUser)
	r.Post("/unban-user", h.UnbanUser)
	r.Post("/send-warning", h.SendWarning)
	r.Get("/logs", h.ListLogs)
	r.Get("/user-list", h.ListUsers)
	r.Get("/users/{id}/warnings", h.ListUserWarnings)

	r.Post("/news", h.CreateNews)
	r.Put("/news/{id}", h.UpdateNews)
	r.Delete("/news/{id}", h.DeleteNews)

	return r
}
