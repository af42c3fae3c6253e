package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Store    StoreConfig
	Logging  LoggingConfig
	Ingest   IngestConfig
	Analysis AnalysisConfig
	Pipeline PipelineConfig
	Vision   VisionConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
}

// StoreConfig holds MongoDB configuration. An empty URI selects the
// in-memory store so the pipeline stays exercisable without a database.
type StoreConfig struct {
	MongoURI string
	Database string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// IngestConfig holds source adapter configuration. Each credential/URL
// doubles as the adapter's enabled switch.
type IngestConfig struct {
	PrimaryURL     string
	ScrapeAPIKey   string
	ScrapeProxyURL string
	ScrapeTarget   string
	BearerToken    string
	APIBaseURL     string
	RSSFeedURL     string
	MaxRetries     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	BatchSize      int
}

// AnalysisConfig holds AI provider configuration
type AnalysisConfig struct {
	OpenAIKey     string
	OpenAIURL     string
	OpenAIModel   string
	DeepSeekKey   string
	DeepSeekURL   string
	DeepSeekModel string
	Timeout       time.Duration
}

// PipelineConfig holds run orchestration configuration
type PipelineConfig struct {
	WorkerCount      int
	ScheduleInterval time.Duration
	SchedulerEnabled bool
}

// VisionConfig holds optional image labeling settings
type VisionConfig struct {
	Enabled   bool
	AWSRegion string
	Timeout   time.Duration
	MaxLabels int
}

// AuthConfig holds API authentication configuration. An empty secret leaves
// mutating endpoints open.
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

// Load parses flags and environment variables to build configuration.
// A .env file in the working directory is applied first, matching how the
// service is run in development.
func Load() *Config {
	_ = godotenv.Load()

	httpAddr := flag.String("http", ":8080", "HTTP server address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	cacheBackend := flag.String("cache-backend", "memory", "Cache backend: memory or redis")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Cache TTL for analytics responses")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	mongoURI := flag.String("mongo-uri", "", "MongoDB connection URI (empty = in-memory store)")
	mongoDB := flag.String("mongo-db", "skimmer", "MongoDB database name")
	flag.Parse()

	applyEnvString("HTTP_ADDR", httpAddr)
	applyEnvString("LOG_LEVEL", logLevel)
	applyEnvString("CACHE_BACKEND", cacheBackend)
	applyEnvDuration("CACHE_TTL", cacheTTL)
	applyEnvString("REDIS_ADDR", redisAddr)
	applyEnvString("MONGO_URL", mongoURI)
	applyEnvString("DB_NAME", mongoDB)

	return &Config{
		Server:  ServerConfig{HTTPAddr: *httpAddr},
		Logging: LoggingConfig{Level: *logLevel},
		Cache: CacheConfig{
			Backend:   *cacheBackend,
			TTL:       *cacheTTL,
			RedisAddr: *redisAddr,
		},
		Store: StoreConfig{
			MongoURI: *mongoURI,
			Database: *mongoDB,
		},
		Ingest:   loadIngestConfig(),
		Analysis: loadAnalysisConfig(),
		Pipeline: loadPipelineConfig(),
		Vision:   loadVisionConfig(),
		Auth: AuthConfig{
			JWTSecret: os.Getenv("API_JWT_SECRET"),
			JWTIssuer: getEnvOrDefault("API_JWT_ISSUER", "skimmer"),
		},
	}
}

func loadIngestConfig() IngestConfig {
	return IngestConfig{
		PrimaryURL:     os.Getenv("PRIMARY_SCRAPER_URL"),
		ScrapeAPIKey:   os.Getenv("SCRAPINGBEE_KEY"),
		ScrapeProxyURL: getEnvOrDefault("SCRAPE_PROXY_URL", "https://app.scrapingbee.com/api/v1/"),
		ScrapeTarget:   getEnvOrDefault("SCRAPE_TARGET_URL", "https://twitter.com/i/bookmarks"),
		BearerToken:    os.Getenv("TWITTER_BEARER_TOKEN"),
		APIBaseURL:     getEnvOrDefault("TWITTER_API_URL", "https://api.twitter.com/2/users/me/bookmarks"),
		RSSFeedURL:     os.Getenv("RSS_FEED_URL"),
		MaxRetries:     getEnvInt("SCRAPER_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("SCRAPER_RETRY_DELAY", 30*time.Second),
		RequestTimeout: getEnvDuration("SCRAPER_REQUEST_TIMEOUT", 60*time.Second),
		BatchSize:      getEnvInt("SCRAPER_BATCH_SIZE", 50),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIURL:     getEnvOrDefault("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo-0125"),
		DeepSeekKey:   os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekURL:   getEnvOrDefault("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel: getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
		Timeout:       getEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
	}
}

func loadPipelineConfig() PipelineConfig {
	enabled := true
	if v := os.Getenv("SCHEDULER_ENABLED"); v == "false" || v == "0" {
		enabled = false
	}
	return PipelineConfig{
		WorkerCount:      getEnvInt("WORKER_COUNT", 3),
		ScheduleInterval: getEnvDuration("SCRAPER_SCHEDULE_INTERVAL", time.Hour),
		SchedulerEnabled: enabled,
	}
}

func loadVisionConfig() VisionConfig {
	return VisionConfig{
		Enabled:   os.Getenv("PROCESS_IMAGES") == "true",
		AWSRegion: os.Getenv("AWS_REGION"),
		Timeout:   getEnvDuration("VISION_TIMEOUT", 10*time.Second),
		MaxLabels: getEnvInt("VISION_MAX_LABELS", 10),
	}
}

func applyEnvString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func applyEnvDuration(key string, target *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration parses either a Go duration string or a bare number of
// seconds, so values like SCRAPER_RETRY_DELAY=30 work.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
