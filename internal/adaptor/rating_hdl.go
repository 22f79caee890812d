package adaptor

import (
	"net/http"

	"content-share/internal/dto/request"
	"content-share/internal/usecase"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RatingHandler struct {
	service usecase.RatingService
	log     *zap.Logger
}

func NewRatingHandler(service usecase.RatingService, log *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		log:     log.With(zap.String("handler", "rating")),
	}
}

// Submit handles PUT /api/contents/{id}/ratings with {"value": 1..5}
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SubmitRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	rating, err := h.service.SubmitRating(r.Context(), actor, chi.URLParam(r, "id"), req.Value)
	if err != nil {
		handleServiceError(h.log, w, err, "submit rating")
		return
	}

	utils.ResponseSuccess(w, "Rating saved", rating)
}

// Stats handles GET /api/contents/{id}/ratings/stats (public)
func (h *RatingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get rating stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// Mine handles GET /api/contents/{id}/ratings/me (protected)
func (h *RatingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rating, err := h.service.GetUserRating(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get user rating")
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}
