package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucasjlepore/fit-zones/api"
	"github.com/lucasjlepore/fit-zones/config"
	"github.com/lucasjlepore/fit-zones/export"
	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/metrics"
	"github.com/lucasjlepore/fit-zones/race"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("fitboard")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metrics.WithNamespace(cfg.MetricsNamespace))

	catalog, err := race.NewCatalog(ctx, os.DirFS(cfg.DatasetDir), race.WithLogger(logger.Named("catalog")))
	if err != nil {
		log.Error(ctx, "failed to load race dataset", logger.String("dataset_dir", cfg.DatasetDir), logger.Error(err))
		os.Exit(1)
	}
	if catalog.Len() == 0 {
		log.Warn(ctx, "no race results found", logger.String("dataset_dir", cfg.DatasetDir))
	}

	// Validate has already accepted both values.
	statistic, _ := race.ParseStatistic(cfg.Statistic)
	format, _ := export.ParseFormat(cfg.ExportFormat)

	mux := http.NewServeMux()
	api.NewServer(catalog, api.Options{
		Statistic:      statistic,
		Signal:         cfg.SignalField(),
		ExportFormat:   format,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger.Named("api"),
	}).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.Int("events", catalog.Len()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}
