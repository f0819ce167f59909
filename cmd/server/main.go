package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"facturas/internal/config"
	"facturas/internal/infra"
	"facturas/internal/router"
	"facturas/internal/service"
	"facturas/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger: pretty until config says production, then JSON.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, db, err := infra.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	log.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	auth := service.NewAuthService(repos.Usuarios, service.NewAuditoriaService(repos.Logs), cfg)
	if err := auth.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	deps := router.Deps{Repos: repos, DB: db}

	// The email queue needs Redis; without it /enviar answers 503.
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		mailer := infra.NewMailer(cfg)
		if !mailer.Configured() {
			log.Warn().Msg("SMTP_HOST not set: queued invoice emails will fail")
		}
		cb := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
		handlers := map[string]worker.Handler{
			worker.JobEnvioFactura: worker.NewEmailWorker(repos.Facturas, repos.Empresas, mailer, cb, cfg.PDFStoragePath),
		}
		worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

		deps.RDB = rdb
		deps.Enqueuer = worker.NewDispatcher(rdb)
	} else {
		log.Warn().Msg("REDIS_URL not set: invoice email delivery disabled")
	}

	if cfg.VencidasIntervalMinutes > 0 {
		worker.StartVencidasCron(ctx, repos.Facturas, time.Duration(cfg.VencidasIntervalMinutes)*time.Minute)
	}

	r := router.New(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("facturas API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	log.Info().Msg("server exited")
}
