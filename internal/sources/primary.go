package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skimmerhq/skimmer/internal/models"
)

// PrimaryFetcher calls the dedicated bookmark scraper service, which
// returns pre-extracted posts as JSON.
type PrimaryFetcher struct {
	url    string
	config FetcherConfig
	client *http.Client
}

func NewPrimaryFetcher(url string, config FetcherConfig) *PrimaryFetcher {
	return &PrimaryFetcher{
		url:    url,
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (f *PrimaryFetcher) Name() string { return "primary" }

func (f *PrimaryFetcher) Configured() bool { return f.url != "" }

type primaryPost struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Author    string   `json:"author"`
	CreatedAt string   `json:"created_at"`
	URL       string   `json:"url"`
	MediaURLs []string `json:"media_urls"`
}

type primaryResponse struct {
	Bookmarks []primaryPost `json:"bookmarks"`
	Error     string        `json:"error"`
}

func (f *PrimaryFetcher) Fetch(ctx context.Context) ([]models.RawPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create primary request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("primary fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("primary scraper returned status %d", resp.StatusCode)
	}

	var payload primaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode primary response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("primary scraper error: %s", payload.Error)
	}

	posts := make([]models.RawPost, 0, len(payload.Bookmarks))
	for i, b := range payload.Bookmarks {
		if i >= f.config.MaxItems {
			break
		}
		posts = append(posts, models.RawPost{
			ID:        b.ID,
			Text:      b.Text,
			Author:    b.Author,
			CreatedAt: parseTimestamp(b.CreatedAt),
			URL:       b.URL,
			MediaURLs: b.MediaURLs,
		})
	}
	return posts, nil
}

// parseTimestamp accepts RFC3339 with or without offset; unparsable values
// fall back to the current time rather than failing the whole batch.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
