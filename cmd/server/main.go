package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/api"
	"github.com/david/bid-finder/internal/app"
	"github.com/david/bid-finder/internal/config"
	"github.com/david/bid-finder/internal/db"
	"github.com/david/bid-finder/internal/logger"
	"github.com/david/bid-finder/internal/selection"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default ./configs/config.yaml or ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if missing := app.MissingKeys(cfg); len(missing) > 0 {
		log.Warn("provider API keys not set, affected requests will fail", zap.Strings("keys", missing))
	}

	pipeline, err := app.NewPipeline(cfg, log)
	if err != nil {
		log.Fatal("failed to build search pipeline", zap.Error(err))
	}
	extractor, err := app.NewExtractor(cfg, log)
	if err != nil {
		log.Fatal("failed to build extractor", zap.Error(err))
	}
	alerts, err := app.NewAlertService(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build alert service", zap.Error(err))
	}

	opts := api.Options{
		Searcher:    pipeline,
		Extractor:   extractor,
		Alerts:      alerts,
		Selection:   selection.NewStore(),
		Profile:     cfg.Profile,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      log,
	}

	if cfg.Database.URL != "" {
		pool, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		opts.Runs = db.NewStore(pool)
	} else {
		log.Info("no database configured, search history disabled")
	}

	srv := api.NewServer(opts)

	go func() {
		log.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.Int("sources", len(pipeline.Sources)),
			zap.String("scraper", cfg.Scraper.Provider),
			zap.String("extractor", cfg.Extraction.Provider),
			zap.String("alerts", cfg.Alert.Provider))
		if err := srv.Start(cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
