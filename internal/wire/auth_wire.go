package wire

import (
	"content-share/internal/adaptor"
	"content-share/internal/data/repository"
	"content-share/pkg/middleware"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/login - log in, registering unknown usernames
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/register", authHandler.Register)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, repo.User, log)).Post("/api/logout", authHandler.Logout)
}
