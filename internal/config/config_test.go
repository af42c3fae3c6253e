package config

import (
	"flag"
	"io"
	"os"
	"testing"
	"time"
)

func loadWithArgs(t *testing.T, args ...string) *Config {
	t.Helper()

	if len(args) == 0 {
		args = []string{"test"}
	}

	oldCommandLine := flag.CommandLine
	oldArgs := os.Args

	flag.CommandLine = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(io.Discard)
	os.Args = args

	t.Cleanup(func() {
		flag.CommandLine = oldCommandLine
		os.Args = oldArgs
	})

	return Load()
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadWithArgs(t, "test")

	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP addr :8080, got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Cache.Backend != "memory" {
		t.Fatalf("expected default cache backend memory, got %q", cfg.Cache.Backend)
	}
	if cfg.Store.MongoURI != "" {
		t.Fatalf("expected empty Mongo URI by default, got %q", cfg.Store.MongoURI)
	}
	if cfg.Pipeline.ScheduleInterval != time.Hour {
		t.Fatalf("expected default schedule interval 1h, got %v", cfg.Pipeline.ScheduleInterval)
	}
	if !cfg.Pipeline.SchedulerEnabled {
		t.Fatalf("expected scheduler enabled by default")
	}
}

func TestLoad_EnvOverridesFlag(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	cfg := loadWithArgs(t, "test", "-http", ":7070")

	if cfg.Server.HTTPAddr != ":9090" {
		t.Fatalf("expected env to win, got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Fatalf("expected Mongo URI from env, got %q", cfg.Store.MongoURI)
	}
}

func TestLoad_SchedulerDisabled_FromEnv(t *testing.T) {
	for _, v := range []string{"false", "0"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("SCHEDULER_ENABLED", v)
			cfg := loadWithArgs(t, "test")
			if cfg.Pipeline.SchedulerEnabled {
				t.Fatalf("expected SchedulerEnabled=false when SCHEDULER_ENABLED=%s", v)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{"unset", "", 30 * time.Second, 30 * time.Second},
		{"go_duration", "2m", time.Second, 2 * time.Minute},
		{"bare_seconds", "45", time.Second, 45 * time.Second},
		{"garbage", "soon", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION_" + tt.name
			if tt.value != "" {
				t.Setenv(key, tt.value)
			}
			if got := getEnvDuration(key, tt.fallback); got != tt.want {
				t.Fatalf("getEnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_GOOD", "7")
	t.Setenv("TEST_INT_BAD", "seven")

	if got := getEnvInt("TEST_INT_GOOD", 3); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := getEnvInt("TEST_INT_BAD", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
	if got := getEnvInt("TEST_INT_UNSET", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
}
