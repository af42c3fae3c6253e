package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skimmerhq/skimmer/internal/analysis"
	"github.com/skimmerhq/skimmer/internal/auth"
	"github.com/skimmerhq/skimmer/internal/cache"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/pipeline"
	"github.com/skimmerhq/skimmer/internal/scheduler"
	"github.com/skimmerhq/skimmer/internal/sources"
	"github.com/skimmerhq/skimmer/internal/store"
	"github.com/skimmerhq/skimmer/internal/testutil"
)

func newTestServer(t *testing.T, secret string) (*Server, *store.MemoryStore) {
	t.Helper()
	logger := testutil.NullLogger()
	st := store.NewMemoryStore()

	responseCache := cache.NewMemory(time.Minute)
	t.Cleanup(responseCache.Stop)

	chain := sources.NewChain(nil, sources.NewSyntheticSource(), 1, time.Millisecond, logger)
	analyzer := analysis.NewAnalyzer(nil, logger)
	pipe := pipeline.New(chain, analyzer, st, cache.NewMemoryLocker(), 2, logger).
		WithResponseCache(responseCache)
	sched := scheduler.New(pipe.Run, time.Hour, logger)
	t.Cleanup(sched.Stop)

	settings := models.ScraperSettings{
		ScheduleInterval: time.Hour,
		MaxRetries:       3,
		RetryDelay:       30 * time.Second,
		BatchSize:        50,
	}

	middleware := auth.NewMiddleware(auth.NewService(secret, "skimmer"))
	return New(pipe, st, sched, responseCache, settings, middleware, logger), st
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")
	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := doRequest(t, srv, http.MethodGet, "/api/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["message"] == "" {
		t.Fatal("expected a message field")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestRunEndpoint(t *testing.T) {
	srv, st := newTestServer(t, "")

	rec := doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var run models.RunSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("expected completed run, got %s", run.Status)
	}
	if run.ItemsProcessed != 5 {
		t.Errorf("expected 5 items processed, got %d", run.ItemsProcessed)
	}

	items, _ := st.QueryItems(context.Background(), models.SearchParams{Limit: 10})
	if len(items) != 5 {
		t.Errorf("expected 5 persisted items, got %d", len(items))
	}

	if rec := doRequest(t, srv, http.MethodGet, "/api/scraper/run", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on run should be 405, got %d", rec.Code)
	}
}

func TestSessionEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")
	var run models.RunSummary
	json.Unmarshal(rec.Body.Bytes(), &run)

	rec = doRequest(t, srv, http.MethodGet, "/api/scraper/sessions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sessions list failed: %d", rec.Code)
	}
	var runs []models.RunSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 session, got %d", len(runs))
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/scraper/session/"+run.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("session by id failed: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/scraper/session/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing session, got %d", rec.Code)
	}
}

func TestPostEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "")
	doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")

	rec := doRequest(t, srv, http.MethodGet, "/api/posts?limit=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("posts list failed: %d", rec.Code)
	}
	var items []models.ProcessedItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 posts with limit=3, got %d", len(items))
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/posts?author=TechInnovator", "")
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Errorf("expected 1 post by TechInnovator, got %d", len(items))
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/posts/"+items[0].ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("post by id failed: %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/posts/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing post, got %d", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")
	doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")

	rec := doRequest(t, srv, http.MethodPost, "/api/posts/search", `{"sentiment":"positive","limit":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("search failed: %d", rec.Code)
	}
	var items []models.ProcessedItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	for _, item := range items {
		if item.Analysis.Sentiment.Label != "positive" {
			t.Errorf("item %s has sentiment %s", item.ID, item.Analysis.Sentiment.Label)
		}
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/posts/search", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", rec.Code)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "")
	doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")

	rec := doRequest(t, srv, http.MethodGet, "/api/analytics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics failed: %d", rec.Code)
	}
	var analytics models.Analytics
	if err := json.Unmarshal(rec.Body.Bytes(), &analytics); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if analytics.TotalItems != 5 {
		t.Errorf("expected 5 items in analytics, got %d", analytics.TotalItems)
	}
}

func TestConfigEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := doRequest(t, srv, http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("config get failed: %d", rec.Code)
	}
	var cfg scrapingConfig
	json.Unmarshal(rec.Body.Bytes(), &cfg)
	if cfg.ScheduleInterval != 3600 {
		t.Errorf("expected interval 3600s, got %d", cfg.ScheduleInterval)
	}
	if cfg.Enabled {
		t.Errorf("scheduler should start disabled")
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/config", `{"enabled":true,"schedule_interval":1800,"max_retries":5,"retry_delay":10,"batch_size":25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("config post failed: %d", rec.Code)
	}
	json.Unmarshal(rec.Body.Bytes(), &cfg)
	if !cfg.Enabled {
		t.Errorf("scheduler should be enabled after update")
	}
	if cfg.ScheduleInterval != 1800 || cfg.MaxRetries != 5 || cfg.BatchSize != 25 {
		t.Errorf("settings not applied: %+v", cfg)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/config", `{"enabled":false}`)
	json.Unmarshal(rec.Body.Bytes(), &cfg)
	if cfg.Enabled {
		t.Errorf("scheduler should be disabled after update")
	}
}

// flakyFetcher always fails and counts how often it was asked.
type flakyFetcher struct {
	calls int
}

func (f *flakyFetcher) Name() string     { return "primary" }
func (f *flakyFetcher) Configured() bool { return true }
func (f *flakyFetcher) Fetch(ctx context.Context) ([]models.RawPost, error) {
	f.calls++
	return nil, errors.New("upstream down")
}

func TestConfigUpdateChangesRetryBudget(t *testing.T) {
	logger := testutil.NullLogger()
	st := store.NewMemoryStore()
	failing := &flakyFetcher{}

	responseCache := cache.NewMemory(time.Minute)
	t.Cleanup(responseCache.Stop)

	chain := sources.NewChain([]sources.Entry{
		{Fetcher: failing, Retry: true},
	}, sources.NewSyntheticSource(), 1, time.Millisecond, logger)
	analyzer := analysis.NewAnalyzer(nil, logger)
	pipe := pipeline.New(chain, analyzer, st, cache.NewMemoryLocker(), 2, logger).
		WithResponseCache(responseCache)
	sched := scheduler.New(pipe.Run, time.Hour, logger)
	t.Cleanup(sched.Stop)

	settings := models.ScraperSettings{
		ScheduleInterval: time.Hour,
		MaxRetries:       1,
		RetryDelay:       time.Millisecond,
		BatchSize:        50,
	}
	middleware := auth.NewMiddleware(auth.NewService("", "skimmer"))
	srv := New(pipe, st, sched, responseCache, settings, middleware, logger)

	if rec := doRequest(t, srv, http.MethodPost, "/api/scraper/run", ""); rec.Code != http.StatusOK {
		t.Fatalf("run failed: %d", rec.Code)
	}
	if failing.calls != 1 {
		t.Fatalf("expected 1 attempt under initial settings, got %d", failing.calls)
	}

	rec := doRequest(t, srv, http.MethodPost, "/api/config", `{"enabled":false,"max_retries":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("config post failed: %d", rec.Code)
	}

	failing.calls = 0
	if rec := doRequest(t, srv, http.MethodPost, "/api/scraper/run", ""); rec.Code != http.StatusOK {
		t.Fatalf("run failed: %d", rec.Code)
	}
	if failing.calls != 3 {
		t.Errorf("expected 3 attempts after config update, got %d", failing.calls)
	}
}

func TestAnalyticsRecomputedAfterRun(t *testing.T) {
	srv, st := newTestServer(t, "")
	doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")

	var analytics models.Analytics
	rec := doRequest(t, srv, http.MethodGet, "/api/analytics", "")
	json.Unmarshal(rec.Body.Bytes(), &analytics)
	if analytics.TotalItems != 5 {
		t.Fatalf("expected 5 items in analytics, got %d", analytics.TotalItems)
	}

	extra := &models.ProcessedItem{ID: "extra", ProcessedAt: time.Now().UTC()}
	if err := st.UpsertItem(context.Background(), extra); err != nil {
		t.Fatalf("UpsertItem failed: %v", err)
	}

	// The cached snapshot serves until the next run finishes.
	rec = doRequest(t, srv, http.MethodGet, "/api/analytics", "")
	json.Unmarshal(rec.Body.Bytes(), &analytics)
	if analytics.TotalItems != 5 {
		t.Fatalf("expected cached analytics with 5 items, got %d", analytics.TotalItems)
	}

	doRequest(t, srv, http.MethodPost, "/api/scraper/run", "")
	rec = doRequest(t, srv, http.MethodGet, "/api/analytics", "")
	json.Unmarshal(rec.Body.Bytes(), &analytics)
	if analytics.TotalItems != 6 {
		t.Errorf("expected recomputed analytics with 6 items, got %d", analytics.TotalItems)
	}
}

func TestSchedulerEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := doRequest(t, srv, http.MethodPost, "/api/scheduler/start", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scheduler start failed: %d", rec.Code)
	}
	var status scheduler.Status
	json.Unmarshal(rec.Body.Bytes(), &status)
	if !status.Enabled {
		t.Errorf("scheduler should report enabled after start")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/scheduler/status", "")
	json.Unmarshal(rec.Body.Bytes(), &status)
	if !status.Enabled {
		t.Errorf("status should report enabled")
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/scheduler/stop", "")
	json.Unmarshal(rec.Body.Bytes(), &status)
	if status.Enabled {
		t.Errorf("scheduler should report disabled after stop")
	}
}

func TestAuthProtectsAPIRoutes(t *testing.T) {
	srv, _ := newTestServer(t, "test-secret")

	rec := doRequest(t, srv, http.MethodGet, "/api/posts", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	// Health stays open.
	rec = doRequest(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health should not require auth, got %d", rec.Code)
	}

	token, err := auth.NewService("test-secret", "skimmer").IssueToken("ops", time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", recorder.Code)
	}
}
