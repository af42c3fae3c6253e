// Package pipeline orchestrates one end-to-end run: fetch posts, extract
// features, analyze, score, and persist, under a run summary that always
// reaches a terminal state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/skimmerhq/skimmer/internal/analysis"
	"github.com/skimmerhq/skimmer/internal/cache"
	"github.com/skimmerhq/skimmer/internal/features"
	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/metrics"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/scoring"
	"github.com/skimmerhq/skimmer/internal/sources"
	"github.com/skimmerhq/skimmer/internal/store"
	"github.com/skimmerhq/skimmer/internal/vision"
)

// ErrRunInProgress is returned when a run is requested while another one
// holds the run lock.
var ErrRunInProgress = errors.New("pipeline: run already in progress")

const (
	runLockKey = "pipeline-run"
	runLockTTL = 30 * time.Minute
)

// Pipeline wires the ingestion chain, the analyzer, and the store into a
// single runnable unit.
type Pipeline struct {
	chain    *sources.Chain
	analyzer *analysis.Analyzer
	store    store.Store
	locker   cache.Locker
	workers  int
	logger   *logging.Logger

	respCache cache.Cache

	enrichMu       sync.Mutex
	enricher       *vision.Enricher
	enrichDisabled bool
}

func New(chain *sources.Chain, analyzer *analysis.Analyzer, st store.Store, locker cache.Locker, workers int, logger *logging.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		chain:    chain,
		analyzer: analyzer,
		store:    st,
		locker:   locker,
		workers:  workers,
		logger:   logger,
	}
}

// WithEnricher attaches the optional vision enricher.
func (p *Pipeline) WithEnricher(e *vision.Enricher) *Pipeline {
	p.enricher = e
	return p
}

// WithResponseCache registers the cache that holds computed API responses,
// so finished runs can drop the stale analytics snapshot.
func (p *Pipeline) WithResponseCache(c cache.Cache) *Pipeline {
	p.respCache = c
	return p
}

// SetIngestPolicy forwards updated retry and batch settings to the
// ingestion chain. They apply from the next fetch.
func (p *Pipeline) SetIngestPolicy(maxRetries int, retryDelay time.Duration, batchSize int) {
	p.chain.SetRetryPolicy(maxRetries, retryDelay)
	if batchSize > 0 {
		p.chain.SetBatchSize(batchSize)
	}
}

// SetEnrichment toggles vision enrichment at runtime. It has no effect when
// no enricher is attached.
func (p *Pipeline) SetEnrichment(enabled bool) {
	p.enrichMu.Lock()
	p.enrichDisabled = !enabled
	p.enrichMu.Unlock()
}

func (p *Pipeline) currentEnricher() *vision.Enricher {
	p.enrichMu.Lock()
	defer p.enrichMu.Unlock()
	if p.enrichDisabled {
		return nil
	}
	return p.enricher
}

// Run executes one full pipeline run. The returned summary is terminal:
// completed when ingestion succeeded (even if individual posts failed),
// failed only when the whole run could not proceed. The summary is
// persisted at start and again exactly once at the end.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	locked, err := p.locker.TryLock(ctx, runLockKey, runLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrRunInProgress
	}
	defer p.locker.Unlock(ctx, runLockKey)

	run := models.NewRunSummary()
	started := time.Now()
	if err := p.store.UpsertRun(ctx, run); err != nil {
		return nil, fmt.Errorf("persist run start: %w", err)
	}

	defer func() {
		now := time.Now().UTC()
		run.CompletedAt = &now
		if run.Status == models.RunStatusRunning {
			run.Status = models.RunStatusCompleted
		}
		if err := p.store.UpsertRun(context.WithoutCancel(ctx), run); err != nil {
			p.logger.Error("Failed to persist run summary", logging.WithFields(map[string]interface{}{
				"run_id": run.ID,
				"error":  err.Error(),
			}))
		}
		metrics.RunsTotal.WithLabelValues(string(run.Status)).Inc()
		metrics.RunDuration.Observe(time.Since(started).Seconds())

		// Stored items may have changed, so any cached analytics
		// snapshot is stale. This covers scheduled and manual runs.
		if p.respCache != nil {
			p.respCache.Delete(store.AnalyticsCacheKey)
		}
	}()

	posts, sourceUsed, err := p.chain.Fetch(ctx)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.Errors = append(run.Errors, fmt.Sprintf("Run failed: %v", err))
		p.logger.Error("Pipeline run failed", logging.WithFields(map[string]interface{}{
			"run_id": run.ID,
			"error":  err.Error(),
		}))
		return run, err
	}
	run.SourceUsed = sourceUsed
	metrics.SourceFetches.WithLabelValues(sourceUsed).Inc()

	p.logger.Info("Processing posts", logging.WithFields(map[string]interface{}{
		"run_id": run.ID,
		"source": sourceUsed,
		"count":  len(posts),
	}))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		processed int
	)
	jobs := make(chan models.RawPost)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for post := range jobs {
				if err := p.processPost(ctx, post, sourceUsed); err != nil {
					metrics.ItemErrors.Inc()
					mu.Lock()
					run.Errors = append(run.Errors, fmt.Sprintf("Error processing post %s: %v", post.ID, err))
					mu.Unlock()
					p.logger.Error("Post processing failed", logging.WithFields(map[string]interface{}{
						"post_id": post.ID,
						"error":   err.Error(),
					}))
					continue
				}
				metrics.ItemsProcessed.Inc()
				mu.Lock()
				processed++
				mu.Unlock()
			}
		}()
	}

	for _, post := range posts {
		jobs <- post
	}
	close(jobs)
	wg.Wait()

	run.ItemsProcessed = processed
	return run, nil
}

func (p *Pipeline) processPost(ctx context.Context, post models.RawPost, source string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	feats := features.Extract(post.Text, post.CreatedAt)
	media := features.DetectMedia(post.Text)
	mediaFeatures := features.BuildMediaFeatures(post.MediaURLs, media)

	result := p.analyzer.Analyze(ctx, post, feats, media)
	metrics.AnalysisRequests.WithLabelValues(result.Provider).Inc()

	item := &models.ProcessedItem{
		ID:                  post.ID,
		Post:                post,
		Features:            feats,
		Media:               media,
		MediaFeatures:       mediaFeatures,
		Analysis:            result,
		EngagementPotential: scoring.EngagementPotential(feats),
		Source:              source,
		ProcessedAt:         time.Now().UTC(),
	}

	if enricher := p.currentEnricher(); enricher != nil {
		enricher.Enrich(ctx, item)
	}

	return p.store.UpsertItem(ctx, item)
}
