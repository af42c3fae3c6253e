package sources

import (
	"context"
	"sync"
	"time"

	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/models"
)

// Entry pairs an adapter with its retry eligibility. Adapters with Retry
// set share the chain's attempt budget; the rest get a single attempt.
type Entry struct {
	Fetcher Fetcher
	Retry   bool
}

// Chain walks an ordered list of source adapters and falls back to the
// synthetic set when every remote adapter is unconfigured, fails, or
// returns nothing. Missing credentials and exhausted retries degrade the
// same way; the chain itself only errors on context cancellation.
//
// The retry budget, backoff delay, and batch cap are read per fetch so
// the config API can change them between runs.
type Chain struct {
	entries   []Entry
	synthetic Fetcher
	logger    *logging.Logger

	mu         sync.Mutex
	attempts   int
	retryDelay time.Duration
	batchLimit int
}

func NewChain(entries []Entry, synthetic Fetcher, attempts int, retryDelay time.Duration, logger *logging.Logger) *Chain {
	if attempts < 1 {
		attempts = 1
	}
	return &Chain{
		entries:    entries,
		synthetic:  synthetic,
		attempts:   attempts,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// SetRetryPolicy updates the attempt budget for retry-eligible adapters
// and the base backoff delay. Non-positive values leave the current
// setting unchanged.
func (c *Chain) SetRetryPolicy(attempts int, retryDelay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if attempts > 0 {
		c.attempts = attempts
	}
	if retryDelay > 0 {
		c.retryDelay = retryDelay
	}
}

// SetBatchSize caps the number of posts a fetch returns. Zero or negative
// removes the cap.
func (c *Chain) SetBatchSize(limit int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchLimit = limit
}

// Fetch returns the first non-empty batch of posts along with the name of
// the adapter that produced it.
func (c *Chain) Fetch(ctx context.Context) ([]models.RawPost, string, error) {
	configured := false
	for _, e := range c.entries {
		if e.Fetcher.Configured() {
			configured = true
			break
		}
	}
	if !configured {
		c.logger.Info("No ingestion credentials configured, using synthetic posts")
		return c.fetchSynthetic(ctx)
	}

	for _, e := range c.entries {
		if !e.Fetcher.Configured() {
			continue
		}

		posts, err := c.fetchWithRetry(ctx, e)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			c.logger.Warn("Source fetch failed", logging.WithFields(map[string]interface{}{
				"source": e.Fetcher.Name(),
				"error":  err.Error(),
			}))
			continue
		}
		if len(posts) == 0 {
			c.logger.Warn("Source returned no posts", logging.WithField("source", e.Fetcher.Name()))
			continue
		}

		c.logger.Info("Fetched posts", logging.WithFields(map[string]interface{}{
			"source": e.Fetcher.Name(),
			"count":  len(posts),
		}))
		return c.capBatch(posts), e.Fetcher.Name(), nil
	}

	c.logger.Warn("All ingestion sources failed, using synthetic posts")
	return c.fetchSynthetic(ctx)
}

// fetchWithRetry runs one adapter under the chain's retry budget. Errors
// on non-final attempts are swallowed; only the final attempt's error is
// returned. Backoff doubles per attempt and aborts on cancellation.
func (c *Chain) fetchWithRetry(ctx context.Context, e Entry) ([]models.RawPost, error) {
	c.mu.Lock()
	attempts, baseDelay := c.attempts, c.retryDelay
	c.mu.Unlock()
	if !e.Retry || attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		posts, err := e.Fetcher.Fetch(ctx)
		if err == nil && len(posts) > 0 {
			return posts, nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		delay := baseDelay * (1 << attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

func (c *Chain) fetchSynthetic(ctx context.Context) ([]models.RawPost, string, error) {
	posts, err := c.synthetic.Fetch(ctx)
	if err != nil {
		return nil, "", err
	}
	return c.capBatch(posts), c.synthetic.Name(), nil
}

func (c *Chain) capBatch(posts []models.RawPost) []models.RawPost {
	c.mu.Lock()
	limit := c.batchLimit
	c.mu.Unlock()
	if limit > 0 && len(posts) > limit {
		return posts[:limit]
	}
	return posts
}
