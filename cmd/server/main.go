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

	"machineshop/internal/config"
	"machineshop/internal/infra"
	"machineshop/internal/middleware"
	"machineshop/internal/repository"
	"machineshop/internal/router"
	"machineshop/internal/service"
	"machineshop/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	systemID, err := service.EnsureSystemUser(ctx, repository.NewUsuarioRepository(db), cfg.SystemUserID, cfg.SystemUserEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve system user")
	}
	cfg.SystemUserID = systemID

	// Notifications are optional: without Redis the API runs with a no-op notifier.
	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.MailCBConfig())
	var (
		rdb      *redis.Client
		notifier service.Notifier = service.NoopNotifier()
		pool     *worker.Pool
	)
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, notifications disabled")
			rdb = nil
		}
	}
	if rdb != nil {
		notifier = worker.NewDispatcher(rdb)
		emailWorker := worker.NewEmailWorker(mailer, mailCB)
		pool = worker.StartWorkerPool(ctx, rdb, worker.PoolConfig{
			Workers:     cfg.WorkerPoolSize,
			MaxAttempts: cfg.NotifyMaxAttempts,
			Handlers:    map[string]worker.Handler{worker.JobEmail: emailWorker.Process},
		})
		worker.StartRetryCron(ctx, worker.RetryCronConfig{RDB: rdb, CB: mailCB})
	}

	var dibujos infra.DibujoStore
	if cfg.S3Bucket != "" {
		dibujos, err = infra.NewS3DibujoStore(ctx, infra.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure drawing storage")
		}
	} else {
		log.Info().Msg("S3_BUCKET empty, drawing uploads disabled")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartPurge(ctx, 5*time.Minute)

	r := router.New(cfg, router.Deps{
		DB:          db,
		Rdb:         rdb,
		Notifier:    notifier,
		MailCB:      mailCB,
		Dibujos:     dibujos,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("machine shop API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
