package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrimaryFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bookmarks":[
			{"id":"42","text":"hello","author":"alice","created_at":"2025-06-01T10:00:00","url":"https://twitter.com/alice/status/42","media_urls":[]},
			{"id":"43","text":"world","author":"bob","created_at":"2025-06-01T11:00:00Z","url":"https://twitter.com/bob/status/43","media_urls":["https://example.com/a.jpg"]}
		]}`))
	}))
	defer server.Close()

	f := NewPrimaryFetcher(server.URL, DefaultConfig())
	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "42" || posts[0].Author != "alice" {
		t.Errorf("unexpected first post: %+v", posts[0])
	}
	if posts[0].CreatedAt.Hour() != 10 {
		t.Errorf("expected hour 10, got %d", posts[0].CreatedAt.Hour())
	}
	if len(posts[1].MediaURLs) != 1 {
		t.Errorf("expected 1 media url, got %d", len(posts[1].MediaURLs))
	}
}

func TestPrimaryFetcherErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bookmarks":[],"error":"session expired"}`))
	}))
	defer server.Close()

	f := NewPrimaryFetcher(server.URL, DefaultConfig())
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for error payload")
	}
}

func TestPrimaryFetcherBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	f := NewPrimaryFetcher(server.URL, DefaultConfig())
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestAPIFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token123" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"data":[{"id":"7","text":"api post","author_id":"u1","created_at":"2025-06-01T10:00:00Z"}]}`))
	}))
	defer server.Close()

	f := NewAPIFetcher("token123", server.URL, DefaultConfig())
	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Text != "api post" {
		t.Errorf("unexpected text %q", posts[0].Text)
	}
	if posts[0].URL != "https://twitter.com/i/status/7" {
		t.Errorf("unexpected url %q", posts[0].URL)
	}
}

func TestScrapeFetcherParsesArticles(t *testing.T) {
	html := `<html><body>
		<article>
			<div data-testid="User-Name">Alice Dev · @alice · 2h</div>
			<div data-testid="tweetText">Shipping a new release today! #golang</div>
			<a href="/alice/status/99">link</a>
		</article>
		<article>
			<div data-testid="User-Name">Bob · @bob</div>
			<div data-testid="tweetText">Second post</div>
			<a href="https://twitter.com/bob/status/100">link</a>
		</article>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "bee-key" {
			t.Errorf("missing api_key param")
		}
		if r.URL.Query().Get("render_js") != "true" {
			t.Errorf("missing render_js param")
		}
		w.Write([]byte(html))
	}))
	defer server.Close()

	f := NewScrapeFetcher("bee-key", server.URL, "https://twitter.com/i/bookmarks", DefaultConfig())
	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Author != "Alice Dev" {
		t.Errorf("expected author Alice Dev, got %q", posts[0].Author)
	}
	if posts[0].URL != "https://twitter.com/alice/status/99" {
		t.Errorf("relative link not absolutized: %q", posts[0].URL)
	}
	if posts[1].URL != "https://twitter.com/bob/status/100" {
		t.Errorf("absolute link altered: %q", posts[1].URL)
	}
}
