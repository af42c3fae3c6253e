package sources

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/skimmerhq/skimmer/internal/models"
)

// Fetcher is a single ingestion source adapter.
type Fetcher interface {
	Name() string
	// Configured reports whether the adapter's credential or endpoint is
	// set. Unconfigured adapters are skipped by the chain.
	Configured() bool
	Fetch(ctx context.Context) ([]models.RawPost, error)
}

// FetcherConfig carries the knobs shared by all remote adapters.
type FetcherConfig struct {
	Timeout   time.Duration
	MaxItems  int
	UserAgent string
}

func DefaultConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   60 * time.Second,
		MaxItems:  50,
		UserAgent: "skimmer/1.0",
	}
}

// GenerateID derives a stable short identifier from a source name and an
// external reference such as a URL or source-assigned id.
func GenerateID(source, ref string) string {
	hash := sha256.Sum256([]byte(source + ref))
	return fmt.Sprintf("%x", hash[:8])
}
