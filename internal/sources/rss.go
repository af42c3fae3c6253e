package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/skimmerhq/skimmer/internal/models"
)

// RSSFetcher is the self-hosted escape hatch: any RSS or Atom feed of posts
// (a Nitter feed, a bridge service) can feed the pipeline without credentials
// for the platform itself.
type RSSFetcher struct {
	url    string
	parser *gofeed.Parser
	config FetcherConfig
}

func NewRSSFetcher(url string, config FetcherConfig) *RSSFetcher {
	return &RSSFetcher{
		url:    url,
		parser: gofeed.NewParser(),
		config: config,
	}
}

func (f *RSSFetcher) Name() string { return "rss" }

func (f *RSSFetcher) Configured() bool { return f.url != "" }

func (f *RSSFetcher) Fetch(ctx context.Context) ([]models.RawPost, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(f.url, ctxWithTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse RSS feed %s: %w", f.url, err)
	}

	posts := make([]models.RawPost, 0, len(feed.Items))
	for i, item := range feed.Items {
		if i >= f.config.MaxItems {
			break
		}

		publishedAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}

		author := feed.Title
		if item.Author != nil && item.Author.Name != "" {
			author = item.Author.Name
		}

		text := item.Title
		if item.Description != "" {
			text = item.Description
		}

		media := []string{}
		if item.Image != nil && item.Image.URL != "" {
			media = append(media, item.Image.URL)
		}

		posts = append(posts, models.RawPost{
			ID:        GenerateID(f.Name(), item.Link),
			Text:      text,
			Author:    author,
			CreatedAt: publishedAt,
			URL:       item.Link,
			MediaURLs: media,
		})
	}

	return posts, nil
}
