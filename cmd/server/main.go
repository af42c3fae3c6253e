package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skimmerhq/skimmer/internal/analysis"
	"github.com/skimmerhq/skimmer/internal/auth"
	"github.com/skimmerhq/skimmer/internal/cache"
	"github.com/skimmerhq/skimmer/internal/config"
	"github.com/skimmerhq/skimmer/internal/httpapi"
	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/pipeline"
	"github.com/skimmerhq/skimmer/internal/scheduler"
	"github.com/skimmerhq/skimmer/internal/sources"
	"github.com/skimmerhq/skimmer/internal/store"
	"github.com/skimmerhq/skimmer/internal/vision"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cache and run lock
	var (
		responseCache cache.Cache
		locker        cache.Locker
	)
	switch cfg.Cache.Backend {
	case "redis":
		logger.Info("Using Redis cache backend", logging.WithField("addr", cfg.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{Addr: cfg.Cache.RedisAddr}, cfg.Cache.TTL)
		if err != nil {
			logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			responseCache = cache.NewMemory(cfg.Cache.TTL)
			locker = cache.NewMemoryLocker()
		} else {
			responseCache = redisCache
			locker = cache.NewRedisLocker(redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr}), "")
		}
	default:
		logger.Info("Using in-memory cache backend")
		responseCache = cache.NewMemory(cfg.Cache.TTL)
		locker = cache.NewMemoryLocker()
	}

	// Store
	var st store.Store
	if cfg.Store.MongoURI != "" {
		connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
		mongoStore, err := store.NewMongoStore(connectCtx, cfg.Store.MongoURI, cfg.Store.Database)
		connectCancel()
		if err != nil {
			logger.Error("Failed to connect to MongoDB, falling back to in-memory store", logging.WithField("error", err.Error()))
			st = store.NewMemoryStore()
		} else {
			logger.Info("Connected to MongoDB", logging.WithField("database", cfg.Store.Database))
			st = mongoStore
		}
	} else {
		logger.Info("No MongoDB URI configured, using in-memory store")
		st = store.NewMemoryStore()
	}
	defer st.Close(context.Background())

	// Ingestion chain
	fetcherConfig := sources.FetcherConfig{
		Timeout:   cfg.Ingest.RequestTimeout,
		MaxItems:  cfg.Ingest.BatchSize,
		UserAgent: "skimmer/1.0",
	}
	entries := []sources.Entry{
		{Fetcher: sources.NewPrimaryFetcher(cfg.Ingest.PrimaryURL, fetcherConfig), Retry: true},
		{Fetcher: sources.NewScrapeFetcher(cfg.Ingest.ScrapeAPIKey, cfg.Ingest.ScrapeProxyURL, cfg.Ingest.ScrapeTarget, fetcherConfig)},
		{Fetcher: sources.NewAPIFetcher(cfg.Ingest.BearerToken, cfg.Ingest.APIBaseURL, fetcherConfig)},
		{Fetcher: sources.NewRSSFetcher(cfg.Ingest.RSSFeedURL, fetcherConfig)},
	}
	chain := sources.NewChain(entries, sources.NewSyntheticSource(), cfg.Ingest.MaxRetries, cfg.Ingest.RetryDelay, logger)
	chain.SetBatchSize(cfg.Ingest.BatchSize)

	// Analysis providers
	providers := []analysis.Provider{
		analysis.NewChatProvider("OpenAI", cfg.Analysis.OpenAIKey, cfg.Analysis.OpenAIURL, cfg.Analysis.OpenAIModel, cfg.Analysis.Timeout),
		analysis.NewChatProvider("DeepSeek", cfg.Analysis.DeepSeekKey, cfg.Analysis.DeepSeekURL, cfg.Analysis.DeepSeekModel, cfg.Analysis.Timeout),
	}
	analyzer := analysis.NewAnalyzer(providers, logger)

	pipe := pipeline.New(chain, analyzer, st, locker, cfg.Pipeline.WorkerCount, logger).
		WithResponseCache(responseCache)

	// Optional image labeling
	if cfg.Vision.Enabled {
		detector, err := vision.NewAWSDetector(ctx, cfg.Vision.AWSRegion)
		if err != nil {
			logger.Error("Failed to initialize Rekognition, image labeling disabled", logging.WithField("error", err.Error()))
		} else {
			pipe.WithEnricher(vision.NewEnricher(detector, cfg.Vision.MaxLabels, cfg.Vision.Timeout, logger))
			logger.Info("Image labeling enabled", logging.WithField("region", cfg.Vision.AWSRegion))
		}
	}

	sched := scheduler.New(pipe.Run, cfg.Pipeline.ScheduleInterval, logger)
	if cfg.Pipeline.SchedulerEnabled {
		sched.Start()
	}
	defer sched.Stop()

	settings := models.ScraperSettings{
		Enabled:          cfg.Pipeline.SchedulerEnabled,
		ScheduleInterval: cfg.Pipeline.ScheduleInterval,
		MaxRetries:       cfg.Ingest.MaxRetries,
		RetryDelay:       cfg.Ingest.RetryDelay,
		BatchSize:        cfg.Ingest.BatchSize,
		ProcessImages:    cfg.Vision.Enabled,
	}

	authSvc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if authSvc.Enabled() {
		logger.Info("API authentication enabled")
	}

	server := httpapi.New(pipe, st, sched, responseCache, settings, auth.NewMiddleware(authSvc), logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", logging.WithField("error", err.Error()))
		}
		cancel()
	}()

	if err := server.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server error", logging.WithField("error", err.Error()))
		os.Exit(1)
	}
}
