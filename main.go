package main

import (
	"context"
	"log"

	"content-share/cmd"
	"content-share/internal/data/repository"
	"content-share/internal/wire"
	"content-share/pkg/database"
	"content-share/pkg/storage"
	"content-share/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("storage", config.Storage.Driver),
	)

	ctx := context.Background()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if config.Database.ResetOnStart {
		logger.Warn("DB_RESET_ON_START is set, dropping all tables")
	}
	if err := database.EnsureSchema(ctx, db, config.Database.ResetOnStart); err != nil {
		logger.Fatal("Failed to prepare schema", zap.Error(err))
	}

	logger.Info("Database connected successfully")

	store, err := storage.New(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err))
	}

	repos := repository.NewRepository(db, logger)

	app, err := wire.Wiring(repos, store, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := app.Service.Auth.EnsureAdmin(ctx, config.Seed.AdminUsername, config.Seed.AdminPassword); err != nil {
		logger.Fatal("Failed to seed admin", zap.Error(err))
	}

	if err := cmd.APIServer(app, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}
