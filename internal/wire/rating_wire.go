package wire

import (
	"content-share/internal/adaptor"
	"content-share/internal/data/repository"
	"content-share/pkg/middleware"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRating(
	r chi.Router,
	ratingHandler *adaptor.RatingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/contents/{id}/ratings/stats", ratingHandler.Stats)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// PUT /api/contents/{id}/ratings {"value": 1..5}, repeat to overwrite
		r.Put("/api/contents/{id}/ratings", ratingHandler.Submit)
		r.Get("/api/contents/{id}/ratings/me", ratingHandler.Mine)
	})
}
