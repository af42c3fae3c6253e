package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks the lifecycle of an ingestion run. Completed and failed
// are terminal.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunSummary records one end-to-end ingest-analyze-persist run. It is owned
// and mutated only by the run that created it.
type RunSummary struct {
	ID             string     `json:"id" bson:"id"`
	StartedAt      time.Time  `json:"started_at" bson:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Status         RunStatus  `json:"status" bson:"status"`
	ItemsProcessed int        `json:"items_processed" bson:"items_processed"`
	Errors         []string   `json:"errors" bson:"errors"`
	SourceUsed     string     `json:"source_used" bson:"source_used"`
}

// NewRunSummary creates a run summary in the running state.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Status:    RunStatusRunning,
		Errors:    []string{},
	}
}

// ScraperSettings is the externally visible pipeline configuration exposed
// over the config endpoints.
type ScraperSettings struct {
	Enabled          bool          `json:"enabled"`
	ScheduleInterval time.Duration `json:"schedule_interval"`
	MaxRetries       int           `json:"max_retries"`
	RetryDelay       time.Duration `json:"retry_delay"`
	BatchSize        int           `json:"batch_size"`
	ProcessImages    bool          `json:"process_images"`
}
