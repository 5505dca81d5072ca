package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gobrain/internal/aiclient"
	"github.com/jonesrussell/gobrain/internal/api"
	"github.com/jonesrussell/gobrain/internal/classifier"
	"github.com/jonesrussell/gobrain/internal/config"
	"github.com/jonesrussell/gobrain/internal/extractor"
	"github.com/jonesrussell/gobrain/internal/ingest"
	"github.com/jonesrussell/gobrain/internal/logger"
	"github.com/jonesrussell/gobrain/internal/metrics"
	"github.com/jonesrussell/gobrain/internal/storage"
	"github.com/jonesrussell/gobrain/internal/urlcheck"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gobrain: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	log := logger.Must(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	defer func() { _ = log.Sync() }()

	log.Info("starting service",
		logger.String("service", cfg.Service.Name),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug))

	m := metrics.New()

	mediaStore, err := storage.NewMediaStore(cfg.Storage.MediaDir, log, m)
	if err != nil {
		return fmt.Errorf("init media store: %w", err)
	}
	noteStore, err := storage.NewNoteStore(cfg.Storage.NotesDir, log, m)
	if err != nil {
		return fmt.Errorf("init note store: %w", err)
	}

	checker := urlcheck.New()
	fetcher := extractor.NewFetcher(
		checker,
		cfg.Extraction.FetchTimeout.Std(),
		cfg.Extraction.UserAgent,
		cfg.Extraction.MaxRedirects,
	)
	contentExtractor := extractor.New(fetcher, cfg.Extraction.MaxContentLength, log, m)

	ai := aiclient.New(aiclient.Config{
		APIKey:            cfg.AI.APIKey,
		APIURL:            cfg.AI.APIURL,
		Model:             cfg.AI.Model,
		Timeout:           cfg.AI.Timeout.Std(),
		MaxTokens:         cfg.AI.MaxTokens,
		Temperature:       cfg.AI.Temperature,
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		Burst:             cfg.AI.Burst,
	})
	if !ai.Configured() {
		log.Warn("AI credentials not configured, running with heuristic classification only")
	}

	contentClassifier := classifier.New(ai, log, m)
	orchestrator := ingest.New(checker, contentExtractor, contentClassifier, mediaStore, log)
	handler := api.NewHandler(orchestrator, mediaStore, noteStore, log, m, cfg.Service.Name)

	serverCfg := &api.ServerConfig{
		ServiceName: cfg.Service.Name,
		Port:        cfg.Service.Port,
		Debug:       cfg.Service.Debug,
	}
	serverCfg.SetDefaults()

	server := api.NewServer(serverCfg, log, func(router *gin.Engine) {
		api.SetupRoutes(router, handler, m, cfg.Auth.APIToken)
	})

	return server.RunWithGracefulShutdown(context.Background())
}
