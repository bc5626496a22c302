package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/config"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/infra"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/router"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/service"
	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
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

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg, smtpCB)
	dispatcher := worker.NewDispatcher(rdb)

	// Worker handlers are wired here (composition root) so the pool gets its
	// own repositories and report service.
	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	reporteSvc := service.NewReporteService(ventaRepo, cajaRepo, service.NewCajaService(cajaRepo, now), dispatcher, cfg)

	tickets := worker.NewTicketWorker(ventaRepo, mailer, cfg.StoreName, cfg.PDFStoragePath)
	reportes := worker.NewReporteWorker(reporteSvc, mailer, cfg.StoreName, cfg.PDFStoragePath, loc)
	worker.NewPool(rdb, map[string]worker.Handler{
		worker.QueueTicket:  tickets.Process,
		worker.QueueReporte: reportes.Process,
	}).Start(ctx, cfg.WorkerPoolSize)

	worker.StartReporteCron(ctx, worker.ReporteCronConfig{
		Dispatcher: dispatcher,
		Interval:   cfg.ReportCronInterval,
		Email:      cfg.ReportEmail,
		Now:        now,
	})

	r := router.New(ctx, cfg, router.Deps{DB: db, Redis: rdb, SMTPCB: smtpCB, Jobs: dispatcher})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("store", cfg.StoreName).Str("tz", loc.String()).Msgf("POS backend listening on :%d", cfg.Port)
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
	log.Info().Msg("server exited")
}
