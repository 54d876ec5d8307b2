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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/config"
	"yard-staffing-api/database"
	"yard-staffing-api/handlers"
	"yard-staffing-api/logging"
	"yard-staffing-api/repository"
	"yard-staffing-api/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logging.New(cfg.Log)
	if cfg.JWT.UsingFallback {
		log.Warn("JWT_SECRET not set; using the development fallback secret")
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	hasher, err := services.NewPasswordHasher(cfg.Auth.HashScheme)
	if err != nil {
		return err
	}
	if cfg.Seed.Enabled {
		if err := database.Seed(ctx, db, hasher, log); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	model, err := services.TrainStaffingModel(services.DefaultStaffingSamples, cfg.Staffing.L2)
	if err != nil {
		return err
	}
	log.WithField("version", model.Version()).Info("staffing model trained")

	cache, err := services.NewCacheService(ctx, cfg.Redis, log)
	if err != nil {
		log.WithError(err).Warn("redis unavailable; caching and event stream disabled")
	}
	defer cache.Close()

	employees := repository.NewEmployeeRepository(db)
	auth := services.NewAuthService(cfg.JWT, employees, hasher, log)

	var cachePinger handlers.Pinger
	if cache.Available() {
		cachePinger = cache
	}
	health := handlers.NewHealthHandler(handlers.PingFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}), cachePinger)

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:    log,
		CORS:      cfg.CORS,
		Auth:      auth,
		Model:     model,
		Cache:     cache,
		Yards:     repository.NewYardRepository(db),
		Employees: employees,
		Managers:  repository.NewManagerRepository(db),
		Health:    health,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
