package user

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anihub/anihub-api/internal/middleware"
	"github.com/anihub/anihub-api/internal/pkg/response"
	"github.com/anihub/anihub-api/internal/pkg/storage"
)

const (
	maxAvatarBytes = 5 << 20 // 5 MiB
	avatarSize     = 256
)

// Handler handles user HTTP requests
type Handler struct {
	repo    Repository
	storage *storage.S3Storage
}

// NewHandler creates user handler
func NewHandler(repo Repository, storage *storage.S3Storage) *Handler {
	return &Handler{repo: repo, storage: storage}
}

// GetByUsername resolves a public user profile
// GET /user/by-username/{username}
func (h *Handler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	u, err := h.repo.GetByUsername(r.Context(), username)
	if err != nil {
		response.InternalError(w)
		return
	}
	if u == nil {
		response.NotFound(w, "User not found")
		return
	}

	response.OK(w, map[string]interface{}{
		"id":         u.ID,
		"username":   u.Username,
		"avatar_url": u.AvatarURL.String,
	})
}

// UploadAvatar accepts a multipart image, normalizes it and stores it
// POST /profile/avatar
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "Avatar file is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		response.BadRequest(w, "Unsupported image format")
		return
	}

	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		response.InternalError(w)
		return
	}

	key := "avatars/" + uuid.New().String() + ".jpg"
	url, err := h.storage.Put(r.Context(), key, &buf, "image/jpeg")
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Avatar upload failed")
		response.InternalError(w)
		return
	}

	if err := h.repo.UpdateAvatar(r.Context(), userID, url); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"avatar_url": url})
}
