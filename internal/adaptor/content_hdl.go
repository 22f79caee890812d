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

type ContentHandler struct {
	service   usecase.ContentService
	maxUpload int64
	log       *zap.Logger
}

func NewContentHandler(service usecase.ContentService, maxUpload int64, log *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service:   service,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "content")),
	}
}

// Upload handles POST /api/contents (multipart fields "file" and "title")
func (h *ContentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	upload, file, err := openUpload(w, r, "file", h.maxUpload)
	if errors.Is(err, errTooLarge) {
		utils.ResponseTooLarge(w, "File too large")
		return
	}
	if err != nil {
		handleServiceError(h.log, w, err, "upload content")
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	req := &request.UploadContentRequest{Title: r.FormValue("title")}

	content, err := h.service.Upload(r.Context(), actor, req, upload)
	if err != nil {
		handleServiceError(h.log, w, err, "upload content")
		return
	}

	utils.ResponseCreated(w, "Content uploaded", content)
}

// List handles GET /api/contents?search=&page=&per_page=
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	req := &request.ListContentRequest{
		PaginatedRequest: *parsePagination(r),
		Search:           r.URL.Query().Get("search"),
	}

	contents, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list contents")
		return
	}

	utils.ResponseSuccess(w, "success", contents)
}

// Get handles GET /api/contents/{id}. Every call counts as one view.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.View(r.Context(), chi.URLParam(r, "id"), parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "view content")
		return
	}

	utils.ResponseSuccess(w, "success", detail)
}

// Download handles GET /api/contents/{id}/download
func (h *ContentHandler) Download(w http.ResponseWriter, r *http.Request) {
	dl, err := h.service.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "download content")
		return
	}

	if err := writeDownload(w, dl, "attachment"); err != nil {
		h.log.Warn("Download stream interrupted", zap.Error(err))
	}
}

// Update handles PATCH /api/contents/{id} (owner or admin)
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	content, err := h.service.UpdateTitle(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update content")
		return
	}

	utils.ResponseSuccess(w, "Content updated", content)
}

// Delete handles DELETE /api/contents/{id} (owner or admin)
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete content")
		return
	}

	utils.ResponseSuccess(w, "Content deleted", nil)
}
