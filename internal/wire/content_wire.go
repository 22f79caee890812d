package wire

import (
	"content-share/internal/adaptor"
	"content-share/internal/data/repository"
	"content-share/pkg/middleware"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireContent(
	r chi.Router,
	contentHandler *adaptor.ContentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/contents?search=&page=&per_page=
	r.Get("/api/contents", contentHandler.List)
	// GET /api/contents/{id} - detail with comments, counts a view
	r.Get("/api/contents/{id}", contentHandler.Get)
	r.Get("/api/contents/{id}/download", contentHandler.Download)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/contents", contentHandler.Upload)
		// owner or admin
		r.Patch("/api/contents/{id}", contentHandler.Update)
		r.Delete("/api/contents/{id}", contentHandler.Delete)
	})
}
