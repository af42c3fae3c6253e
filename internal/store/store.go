// Package store persists processed items and run summaries. The Mongo
// implementation is the production backend; the memory implementation
// serves tests and credential-free runs.
package store

import (
	"context"
	"errors"

	"github.com/skimmerhq/skimmer/internal/models"
)

// ErrNotFound is returned when a lookup by ID matches nothing.
var ErrNotFound = errors.New("store: not found")

// AnalyticsCacheKey is the response-cache key for the computed analytics
// snapshot. The API serves it from cache and the pipeline drops it after
// every run.
const AnalyticsCacheKey = "analytics"

// Store is the persistence boundary for the pipeline and the HTTP API.
type Store interface {
	UpsertItem(ctx context.Context, item *models.ProcessedItem) error
	GetItem(ctx context.Context, id string) (*models.ProcessedItem, error)
	QueryItems(ctx context.Context, params models.SearchParams) ([]*models.ProcessedItem, error)

	UpsertRun(ctx context.Context, run *models.RunSummary) error
	GetRun(ctx context.Context, id string) (*models.RunSummary, error)
	RecentRuns(ctx context.Context, limit int) ([]*models.RunSummary, error)

	Analytics(ctx context.Context) (*models.Analytics, error)

	Close(ctx context.Context) error
}
