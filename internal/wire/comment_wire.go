package wire

import (
	"content-share/internal/adaptor"
	"content-share/internal/data/repository"
	"content-share/pkg/middleware"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireComment(
	r chi.Router,
	commentHandler *adaptor.CommentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Get("/api/contents/{id}/comments", commentHandler.List)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Post("/api/contents/{id}/comments", commentHandler.Create)
		// comment author, content owner or admin
		r.Delete("/api/comments/{id}", commentHandler.Delete)
	})
}
