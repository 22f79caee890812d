package adaptor

import (
	"errors"
	"net/http"

	"content-share/internal/dto/request"
	"content-share/internal/usecase"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service   usecase.UserService
	maxUpload int64
	log       *zap.Logger
}

func NewUserHandler(service usecase.UserService, maxUpload int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), actor.ID)
	if err != nil {
		handleServiceError(h.log, w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// GetPublicProfile handles GET /api/users/{username}
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.service.GetPublicProfile(r.Context(), username, parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get public profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// RenameUser handles PATCH /api/user/username
func (h *UserHandler) RenameUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RenameUserRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.RenameUser(r.Context(), actor.ID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "rename user")
		return
	}

	utils.ResponseSuccess(w, "Username updated", user)
}

// UploadAvatar handles POST /api/user/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	upload, file, err := openUpload(w, r, "avatar", h.maxUpload)
	if errors.Is(err, errTooLarge) {
		utils.ResponseTooLarge(w, "Avatar too large")
		return
	}
	if err != nil {
		handleServiceError(h.log, w, err, "upload avatar")
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	user, err := h.service.UpdateAvatar(r.Context(), actor.ID, upload)
	if err != nil {
		handleServiceError(h.log, w, err, "upload avatar")
		return
	}

	utils.ResponseSuccess(w, "Avatar updated", user)
}

// GetAvatar handles GET /api/users/{username}/avatar
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	dl, err := h.service.OpenAvatar(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(h.log, w, err, "get avatar")
		return
	}

	if err := writeDownload(w, dl, "inline"); err != nil {
		h.log.Warn("Avatar stream interrupted", zap.Error(err))
	}
}

// GetAllUsers handles GET /api/admin/users (admin only)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context(), parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}
