package wire

import (
	"fmt"
	"net/http"

	"content-share/internal/adaptor"
	"content-share/internal/data/repository"
	"content-share/internal/job"
	"content-share/internal/usecase"
	"content-share/pkg/middleware"
	"content-share/pkg/storage"
	"content-share/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultCleanupSchedule = "@daily"

// App holds everything main needs to run the server.
type App struct {
	Router  *chi.Mux
	Cron    *cron.Cron
	Service *usecase.Service
}

// Wiring builds services, handlers, routes and background jobs.
func Wiring(repo *repository.Repository, store storage.Store, config *utils.Config, logger *zap.Logger) (*App, error) {
	service := usecase.NewService(repo, store, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, config, logger)

	scheduler, err := setupCron(repo, config, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Router:  router,
		Cron:    scheduler,
		Service: service,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, config, logger)
	wireUser(r, handler.User, repo, config, logger)
	wireContent(r, handler.Content, repo, config, logger)
	wireComment(r, handler.Comment, repo, config, logger)
	wireRating(r, handler.Rating, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// setupCron registers periodic jobs. The scheduler is returned unstarted.
func setupCron(repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	schedule := config.Session.CleanupSchedule
	if schedule == "" {
		schedule = defaultCleanupSchedule
	}

	if _, err := c.AddJob(schedule, job.NewSessionCleanupJob(repo.Session, logger)); err != nil {
		return nil, fmt.Errorf("schedule session cleanup %q: %w", schedule, err)
	}

	return c, nil
}
