// Package vision enriches processed items with image labels. It is
// optional: the pipeline runs identically without it, items just carry no
// image tags.
package vision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/models"
)

// maxImageBytes bounds how much of a media URL we are willing to download.
const maxImageBytes = 5 << 20

// Detector is the low-level provider abstraction that labels image bytes.
type Detector interface {
	DetectLabels(ctx context.Context, imageBytes []byte, maxLabels int) ([]string, error)
}

// Enricher downloads a post's images and attaches detected labels. Failures
// are logged and skipped; enrichment never fails an item.
type Enricher struct {
	detector  Detector
	maxLabels int
	client    *http.Client
	logger    *logging.Logger
}

func NewEnricher(detector Detector, maxLabels int, timeout time.Duration, logger *logging.Logger) *Enricher {
	if maxLabels <= 0 {
		maxLabels = 10
	}
	return &Enricher{
		detector:  detector,
		maxLabels: maxLabels,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Enrich fills item.MediaFeatures.ImageTags from the post's media URLs.
func (e *Enricher) Enrich(ctx context.Context, item *models.ProcessedItem) {
	if len(item.Post.MediaURLs) == 0 {
		return
	}

	seen := map[string]bool{}
	tags := []string{}
	for _, url := range item.Post.MediaURLs {
		data, err := e.download(ctx, url)
		if err != nil {
			e.logger.Warn("Image download failed", logging.WithFields(map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			}))
			continue
		}

		labels, err := e.detector.DetectLabels(ctx, data, e.maxLabels)
		if err != nil {
			e.logger.Warn("Label detection failed", logging.WithFields(map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			}))
			continue
		}

		for _, label := range labels {
			if !seen[label] {
				seen[label] = true
				tags = append(tags, label)
			}
		}
	}

	if len(tags) > 0 {
		item.MediaFeatures.ImageTags = tags
	}
}

func (e *Enricher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body")
	}
	return data, nil
}
