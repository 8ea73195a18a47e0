package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hudsonargollo/gastronomOS-sub008/internal/config"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/infra"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/repository"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/router"
	"github.com/hudsonargollo/gastronomOS-sub008/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has full
	// access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)
	auditRepo := repository.NewTransferAuditRepository(db)
	transferRepo := repository.NewTransferRepository(db)

	handlers := worker.Handlers{
		Audit:        worker.NewAuditWorker(auditRepo),
		Notification: worker.NewNotificationWorker(mailer, mailCB),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Escalation cron — re-notifies urgent transfers stuck in REQUESTED
	worker.StartEscalationCron(ctx, worker.EscalationCronConfig{
		TransferRepo: transferRepo,
		Dispatcher:   dispatcher,
		CB:           mailCB,
		RDB:          rdb,
		OpsEmail:     cfg.OpsEmail,
		MaxAge:       time.Duration(cfg.EscalationAgeHours) * time.Hour,
	})

	r := router.New(cfg, db, rdb, mailCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gastronomOS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
