package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/skimmerhq/skimmer/internal/models"
)

// ScrapeFetcher pulls the bookmarks page through a rendering proxy and
// extracts posts from the HTML with CSS selectors.
type ScrapeFetcher struct {
	apiKey   string
	proxyURL string
	target   string
	config   FetcherConfig
	client   *http.Client
}

func NewScrapeFetcher(apiKey, proxyURL, target string, config FetcherConfig) *ScrapeFetcher {
	return &ScrapeFetcher{
		apiKey:   apiKey,
		proxyURL: proxyURL,
		target:   target,
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
	}
}

func (f *ScrapeFetcher) Name() string { return "scrapingbee" }

func (f *ScrapeFetcher) Configured() bool { return f.apiKey != "" }

func (f *ScrapeFetcher) Fetch(ctx context.Context) ([]models.RawPost, error) {
	params := url.Values{}
	params.Set("api_key", f.apiKey)
	params.Set("url", f.target)
	params.Set("render_js", "true")
	params.Set("wait", "5000")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.proxyURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create scrape request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape proxy returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse scraped HTML: %w", err)
	}

	posts := make([]models.RawPost, 0)
	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		if i >= f.config.MaxItems {
			return
		}

		text := strings.TrimSpace(s.Find(`[data-testid="tweetText"]`).Text())
		if text == "" {
			return
		}

		// The rendered author block is "Display Name · @handle · time".
		author := strings.TrimSpace(strings.SplitN(s.Find(`[data-testid="User-Name"]`).Text(), "·", 2)[0])

		link, _ := s.Find(`a[href*="status"]`).Attr("href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = "https://twitter.com" + link
		}

		posts = append(posts, models.RawPost{
			ID:        GenerateID(f.Name(), link+text),
			Text:      text,
			Author:    author,
			CreatedAt: time.Now().UTC(),
			URL:       link,
			MediaURLs: []string{},
		})
	})

	return posts, nil
}
