package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/cache"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/database"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/events"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/gemini"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/logger"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/scheduler"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.Server.Debug)

	// Open database connection
	db, err := database.Open(cfg.Storage.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	version, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Str("path", cfg.Storage.DBPath).Int64("schema_version", version).Msg("connected to snapshot database")

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(cfg.Storage.HoldingsPath)
	snapshotRepo := repository.NewSnapshotRepository(db)

	prices := newPriceResolver(cfg, log)

	// Create event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger.Component(log, "events"))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing portfolio events to kafka")
	}
	defer publisher.Close()

	// Create LLM client; without a key insight requests report that the service is unconfigured
	var generator service.TextGenerator
	if cfg.AI.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), gemini.Config{APIKey: cfg.AI.GeminiAPIKey, Model: cfg.AI.Model})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create gemini client")
		}
		generator = client
		log.Info().Str("model", client.Model()).Msg("AI insights enabled")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, AI insights disabled")
	}

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(
		holdingRepo,
		snapshotRepo,
		prices,
		publisher,
		service.PortfolioServiceConfig{
			SectorMap:            cfg.SectorMap,
			RefreshDelay:         cfg.Refresh.Delay,
			SyntheticFallback:    cfg.Refresh.SyntheticFallback,
			LiveQuoteConcurrency: cfg.Providers.LiveQuoteConcurrency,
		},
		logger.Component(log, "portfolio"),
	)
	stockService := service.NewStockService(prices)
	insightService := service.NewInsightService(holdingRepo, generator, logger.Component(log, "insights"))

	// Start snapshot scheduler
	sched, err := scheduler.New(cfg.Scheduler.SnapshotSchedule, portfolioService, logger.Component(log, "scheduler"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	sched.Start()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Portfolio: portfolioService,
		Stock:     stockService,
		Insight:   insightService,
	}, cfg, logger.Component(log, "http"))

	// Create HTTP server. Refreshes and insights wait on upstream APIs, so the
	// write timeout is longer than the read timeout.
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Bool("alpha_vantage", prices.PrimaryEnabled()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	sched.Stop(ctx)

	log.Info().Msg("server exited")
}

// newPriceResolver wires Alpha Vantage as primary when a key is configured and
// Yahoo Finance as secondary. Each adapter owns its own cache.
func newPriceResolver(cfg *config.Config, log zerolog.Logger) *provider.Resolver {
	cacheCfg := cache.Config{
		CurrentTTL:    cfg.Providers.CurrentPriceTTL,
		HistoricalTTL: cfg.Providers.HistoricalPriceTTL,
		MaxEntries:    cfg.Providers.CacheMaxEntries,
	}
	providerLog := logger.Component(log, "prices")

	secondary := provider.NewAdapter(
		yahoo.NewFinanceClient(yahoo.Config{BaseURL: cfg.Providers.YahooBaseURL, Timeout: cfg.Providers.Timeout}),
		cache.New(cacheCfg),
		provider.AdapterConfig{HistoricalDelay: cfg.Providers.YahooHistoricalDelay, Logger: providerLog},
	)

	if cfg.Providers.AlphaVantageKey == "" {
		log.Warn().Msg("ALPHA_VANTAGE_API_KEY not set, using Yahoo Finance only")
		return provider.NewResolver(nil, secondary, providerLog)
	}

	primary := provider.NewAdapter(
		alphavantage.NewClient(alphavantage.Config{
			APIKey:  cfg.Providers.AlphaVantageKey,
			BaseURL: cfg.Providers.AlphaVantageBaseURL,
			Timeout: cfg.Providers.Timeout,
		}),
		cache.New(cacheCfg),
		provider.AdapterConfig{HistoricalDelay: cfg.Providers.AlphaVantageHistoricalDelay, Logger: providerLog},
	)
	return provider.NewResolver(primary, secondary, providerLog)
}
