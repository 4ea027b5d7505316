package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finreview/internal/analyze"
	"finreview/internal/api"
	"finreview/internal/api/handlers"
	"finreview/internal/extract"
	"finreview/internal/llm"
	"finreview/internal/mailbox"
	"finreview/internal/notify"
	"finreview/internal/pipeline"
	"finreview/internal/poller"
	"finreview/internal/store"
	"finreview/pkg/config"
	"finreview/pkg/logger"
	"finreview/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration; a missing credential is fatal here
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting finreview service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rubrics
	rubrics, err := analyze.LoadRubrics(cfg.Store.RubricsPath)
	if err != nil {
		appLogger.Fatal("Failed to load rubrics", zap.Error(err))
	}

	// LLM client; fails fast on invalid credentials
	llmClient, err := llm.NewGigaChatClient(ctx, &cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}
	defer llmClient.Close()

	analyzer := analyze.NewAnalyzer(llmClient, rubrics, appLogger)
	extractor := extract.NewExtractor(appLogger)

	// Result store
	resultStore, err := buildStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize result store", zap.Error(err))
	}

	// Inbox poller with its outbound transport
	var pollerDone chan struct{}
	if cfg.Poller.Enabled {
		transport, err := buildTransport(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize mail transport", zap.Error(err))
		}

		notifier := notify.NewNotifier(transport, appLogger)
		pipe := pipeline.New(extractor, analyzer, resultStore, notifier, appLogger)
		inbox := mailbox.NewIMAPMailbox(&cfg.Mailbox, appLogger)
		inboxPoller := poller.New(inbox, pipe, &cfg.Poller, appLogger)

		pollerDone = make(chan struct{})
		go func() {
			defer close(pollerDone)
			inboxPoller.Run(ctx)
		}()
	} else {
		appLogger.Info("Inbox poller disabled")
	}

	// HTTP surface
	analysisHandler := handlers.NewAnalysisHandler(extractor, analyzer, resultStore, cfg.Poller.IncomingDir, appLogger)
	app := api.SetupRouter(analysisHandler, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	cancel()
	if pollerDone != nil {
		// Run drains in-flight pipeline work before returning
		<-pollerDone
	}
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

func buildStore(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			return nil, err
		}
		pgStore := store.NewPostgresStore(pool, appLogger)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pgStore, nil
	default:
		appLogger.Info("Using file-backed result store", zap.String("file", cfg.Store.ResultsFile))
		return store.NewFileStore(cfg.Store.ResultsFile, appLogger), nil
	}
}

func buildTransport(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (notify.Transport, error) {
	out := &cfg.Outbound
	switch out.Transport {
	case "resend":
		from := out.ResendFromEmail
		if from == "" {
			from = cfg.Mailbox.Address
		}
		appLogger.Info("Sending via Resend API")
		return notify.NewResendTransport(out.ResendAPIKey, from, out.FromName), nil
	case "gmail_api":
		transport := notify.NewGmailTransport(cfg.Mailbox.Address, out.FromName, out.GmailAccessToken, appLogger)
		// Verify the access token up front; tokens expire within the hour
		if err := transport.Verify(ctx); err != nil {
			return nil, err
		}
		appLogger.Info("Sending via Gmail API")
		return transport, nil
	default:
		appLogger.Info("Sending via SMTP", zap.String("host", out.SMTPHost))
		return notify.NewSMTPTransport(out.SMTPHost, out.SMTPPort, cfg.Mailbox.Address, out.FromName, out.SMTPPassword), nil
	}
}
