package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	campaignwizard "adpilot/contexts/campaign-automation/campaign-wizard"
	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/gemini"
	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/meta"
	postgresadapter "adpilot/contexts/campaign-automation/campaign-wizard/adapters/postgres"
	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/webhook"
	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/webscan"
	workerapp "adpilot/contexts/campaign-automation/campaign-wizard/application/workers"
	"adpilot/internal/platform/config"
	"adpilot/internal/platform/db"
	"adpilot/internal/platform/httpserver"
	"adpilot/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	dispatcher   workerapp.WebhookDispatcher
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.TokenCipherKey) == "" {
		return nil, errors.New("TOKEN_CIPHER_KEY is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	cipher, err := meta.NewSecretbox(cfg.TokenCipherKey)
	if err != nil {
		return nil, err
	}
	generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := campaignwizard.NewModule(campaignwizard.Dependencies{
		Tasks:             repo,
		Credentials:       repo,
		Platform:          meta.NewClient(cfg.MetaBaseURL, cfg.MetaAPIVersion, cipher, 30*time.Second, logger),
		Generator:         generator,
		Scanner:           webscan.NewScanner(nil),
		Cipher:            cipher,
		Outbox:            repo,
		Clock:             postgresadapter.SystemClock{},
		IDGenerator:       postgresadapter.UUIDGenerator{},
		FallbackLinkURL:   cfg.FallbackLinkURL,
		HostedPrivacyBase: cfg.HostedPrivacyBase,
		Logger:            logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		dispatcher: workerapp.WebhookDispatcher{
			Subscriber: kafka,
			Sink:       webhook.NewNotifier(cfg.WebhookEndpoint, 10*time.Second),
			Group:      "wizard-webhooks-cg",
			Logger:     logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.dispatcher.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
