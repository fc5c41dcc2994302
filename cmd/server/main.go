package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cartwise/backend/config"
	httpDelivery "github.com/cartwise/backend/internal/delivery/http"
	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/infrastructure/memory"
	"github.com/cartwise/backend/internal/infrastructure/sqlite"
	"github.com/cartwise/backend/internal/logger"
	"github.com/cartwise/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// repositories is what the detection service needs from a store
type repositories interface {
	domain.ListRepository
	domain.SettingsRepository
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "cartwise-backend",
	})

	log.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("store", cfg.Store.Type).
		Msg("Starting CartWise backend")

	// Initialize infrastructure dependencies
	store, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	defaults := cfg.Detection.Settings()
	log.Info().
		Str("option", string(defaults.Option)).
		Float64("threshold", defaults.SimilarityThreshold).
		Bool("include_completed", defaults.IncludeCompleted).
		Bool("check_different_stores", defaults.CheckDifferentStores).
		Msg("Detection defaults")

	// Initialize usecase layer
	detectionService := usecase.NewDetectionService(store, store, usecase.DetectionServiceConfig{
		DefaultSettings: defaults,
		Logger:          log,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(detectionService, log)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

// openStore builds the configured list/settings store
func openStore(cfg config.StoreConfig, log zerolog.Logger) (repositories, func(), error) {
	switch cfg.Type {
	case "sqlite":
		s, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Path).Msg("Using SQLite store")
		return s, func() {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close store")
			}
		}, nil
	default:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}
}
