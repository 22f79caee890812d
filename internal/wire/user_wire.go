package wire

import (
	"content-share/internal/adaptor"
	"content-share/internal/data/repository"
	"content-share/pkg/middleware"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/users/{username}", userHandler.GetPublicProfile)
	r.Get("/api/users/{username}/avatar", userHandler.GetAvatar)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/user/profile", userHandler.GetProfile)
		r.Patch("/api/user/username", userHandler.RenameUser)
		r.Post("/api/user/avatar", userHandler.UploadAvatar)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, repo.User, log),
		middleware.Admin(log),
	).Get("/api/admin/users", userHandler.GetAllUsers) // ?page=1&per_page=10
}
