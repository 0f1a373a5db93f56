package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golazo-tv/golazo/app/api"
	"github.com/golazo-tv/golazo/app/cfg"
	"github.com/golazo-tv/golazo/app/database"
	"github.com/golazo-tv/golazo/app/enrich"
	"github.com/golazo-tv/golazo/app/notify"
	"github.com/golazo-tv/golazo/app/pipeline"
	"github.com/golazo-tv/golazo/app/quality"
	"github.com/golazo-tv/golazo/app/scheduler"
	"github.com/golazo-tv/golazo/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Golazo server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version)

	policy, err := quality.LoadPolicy(appCfg.PolicyFile)
	if err != nil {
		slog.Error("Failed to load policy", "file", appCfg.PolicyFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Policy loaded", "categories", len(policy.Categories), "search_queries", len(policy.SearchQueries))

	videoRepo := database.NewVideoRepository(db)
	channelRepo := database.NewChannelRepository(db)
	subscriptionRepo := database.NewSubscriptionRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	jobRepo := database.NewJobRepository(db)

	registry := sources.NewRegistry()
	if appCfg.YouTubeAPIKey != "" {
		registry.Register(sources.NewYouTube(appCfg.YouTubeAPIKey, appCfg.UserAgent, policy.SourceKeywords["youtube"]))
	}
	if appCfg.TwitchClientID != "" && appCfg.TwitchClientSecret != "" {
		registry.Register(sources.NewTwitch(appCfg.TwitchClientID, appCfg.TwitchClientSecret, appCfg.UserAgent, policy.SourceKeywords["twitch"]))
	}
	slog.Info("Source adapters registered", "platforms", len(registry.Platforms()))

	providerTimeout := time.Duration(appCfg.ProviderTimeout) * time.Second
	var classifiers []enrich.Classifier
	var summarizers []enrich.Summarizer

	if appCfg.GeminiAPIKey != "" {
		gemini, err := enrich.NewGemini(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			slog.Warn("Gemini provider unavailable", "error", err)
		} else {
			classifiers = append(classifiers, gemini)
			summarizers = append(summarizers, gemini)
		}
	}
	if appCfg.OpenAIAPIKey != "" {
		openai := enrich.NewOpenAI(appCfg.OpenAIEndpoint, appCfg.OpenAIAPIKey, appCfg.OpenAIModel)
		classifiers = append(classifiers, openai)
		summarizers = append(summarizers, openai)
	}

	detector := enrich.NewLanguageDetector(policy.DefaultLanguage)
	classifierCascade := enrich.NewClassifierCascade(classifiers,
		enrich.NewKeywordClassifier(policy.KeywordTable()), providerTimeout)
	summarizerCascade := enrich.NewSummarizerCascade(summarizers, detector, providerTimeout)

	var deliverer notify.Deliverer
	if appCfg.MailEndpoint != "" {
		deliverer = notify.NewMailClient(appCfg.MailEndpoint, appCfg.MailAPIKey, appCfg.MailFrom)
	}
	fanout := notify.NewFanout(videoRepo, subscriptionRepo, notificationRepo, deliverer)

	filter := quality.NewFilter(policy)
	orchestrator := pipeline.NewOrchestrator(registry, filter, policy,
		videoRepo, channelRepo, classifierCascade, summarizerCascade, fanout)

	jobScheduler := scheduler.New(jobRepo, scheduler.RunnerFunc(func(ctx context.Context, jobName string, maxItems int) {
		orchestrator.RunJob(ctx, jobName, maxItems)
	}))
	if err := jobScheduler.Start(); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer jobScheduler.Stop()

	handler := api.NewHandler(videoRepo, channelRepo, notificationRepo, jobRepo, orchestrator, jobScheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
