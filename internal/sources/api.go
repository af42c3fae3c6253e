package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skimmerhq/skimmer/internal/models"
)

// APIFetcher reads bookmarks from the official platform API using a bearer
// token. It is the last remote adapter in the chain because the token tier
// rarely grants bookmark access.
type APIFetcher struct {
	bearerToken string
	baseURL     string
	config      FetcherConfig
	client      *http.Client
}

func NewAPIFetcher(bearerToken, baseURL string, config FetcherConfig) *APIFetcher {
	return &APIFetcher{
		bearerToken: bearerToken,
		baseURL:     baseURL,
		config:      config,
		client:      &http.Client{Timeout: config.Timeout},
	}
}

func (f *APIFetcher) Name() string { return "twitter_api" }

func (f *APIFetcher) Configured() bool { return f.bearerToken != "" }

type apiPost struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
}

type apiResponse struct {
	Data []apiPost `json:"data"`
}

func (f *APIFetcher) Fetch(ctx context.Context) ([]models.RawPost, error) {
	url := fmt.Sprintf("%s?max_results=%d&tweet.fields=created_at,author_id", f.baseURL, f.config.MaxItems)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create api request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.bearerToken)
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode api response: %w", err)
	}

	posts := make([]models.RawPost, 0, len(payload.Data))
	for i, p := range payload.Data {
		if i >= f.config.MaxItems {
			break
		}
		createdAt := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			createdAt = t
		}
		posts = append(posts, models.RawPost{
			ID:        GenerateID(f.Name(), p.ID),
			Text:      p.Text,
			Author:    p.AuthorID,
			CreatedAt: createdAt,
			URL:       fmt.Sprintf("https://twitter.com/i/status/%s", p.ID),
			MediaURLs: []string{},
		})
	}
	return posts, nil
}
