package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oyilmaz/carmarket-backend/internal/api"
	"github.com/oyilmaz/carmarket-backend/internal/auth"
	"github.com/oyilmaz/carmarket-backend/internal/config"
	"github.com/oyilmaz/carmarket-backend/internal/db"
	"github.com/oyilmaz/carmarket-backend/internal/logger"
	"github.com/oyilmaz/carmarket-backend/internal/metrics"
	"github.com/oyilmaz/carmarket-backend/internal/middleware"
	"github.com/oyilmaz/carmarket-backend/internal/repository/postgres"
	"github.com/oyilmaz/carmarket-backend/internal/services"
	"github.com/oyilmaz/carmarket-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	userSvc := services.NewUserService(repos.Users, tm, repos.AuditLogs, wp)
	vehicleSvc := services.NewVehicleService(repos.Vehicles, repos.AuditLogs, wp)
	txnSvc := services.NewTransactionService(repos.Transactions, repos.Vehicles, repos.AuditLogs, wp)

	metrics.Init()
	r := api.NewRouter(cfg, userSvc, vehicleSvc, txnSvc, middleware.NewAuthMiddleware(tm))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
