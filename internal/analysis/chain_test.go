package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skimmerhq/skimmer/internal/features"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/testutil"
)

type stubProvider struct {
	name       string
	configured bool
	completion string
	err        error
	calls      int
}

func (s *stubProvider) Name() string     { return s.name }
func (s *stubProvider) Configured() bool { return s.configured }
func (s *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.completion, s.err
}

func samplePost(text string) (models.RawPost, models.FeatureSet, models.MediaInfo) {
	post := models.RawPost{
		ID:        "p1",
		Text:      text,
		Author:    "tester",
		CreatedAt: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
	}
	return post, features.Extract(post.Text, post.CreatedAt), features.DetectMedia(post.Text)
}

func TestAnalyzerNoProvidersUsesSynthetic(t *testing.T) {
	a := NewAnalyzer([]Provider{
		&stubProvider{name: "OpenAI"},
		&stubProvider{name: "DeepSeek"},
	}, testutil.NullLogger())

	post, feats, media := samplePost("Great tip for developers! #golang")
	result := a.Analyze(context.Background(), post, feats, media)

	if result.Provider != "mock" {
		t.Errorf("expected provider mock, got %s", result.Provider)
	}
	if result.CompositeScore == 0 {
		t.Errorf("derived scores not applied")
	}
}

func TestAnalyzerFirstValidJSONWins(t *testing.T) {
	first := &stubProvider{name: "OpenAI", configured: true, completion: `{"topic": "from openai"}`}
	second := &stubProvider{name: "DeepSeek", configured: true, completion: `{"topic": "from deepseek"}`}

	a := NewAnalyzer([]Provider{first, second}, testutil.NullLogger())
	post, feats, media := samplePost("hello world")
	result := a.Analyze(context.Background(), post, feats, media)

	if result.Provider != "OpenAI" {
		t.Errorf("expected provider OpenAI, got %s", result.Provider)
	}
	if result.Topic != "from openai" {
		t.Errorf("unexpected topic %q", result.Topic)
	}
	if second.calls != 0 {
		t.Errorf("second provider should not be called, got %d calls", second.calls)
	}
}

func TestAnalyzerFallsThroughOnBadJSON(t *testing.T) {
	bad := &stubProvider{name: "OpenAI", configured: true, completion: "not json"}
	good := &stubProvider{name: "DeepSeek", configured: true, completion: `{"topic": "recovered"}`}

	a := NewAnalyzer([]Provider{bad, good}, testutil.NullLogger())
	post, feats, media := samplePost("hello world")
	result := a.Analyze(context.Background(), post, feats, media)

	if result.Provider != "DeepSeek" {
		t.Errorf("expected provider DeepSeek, got %s", result.Provider)
	}
}

func TestAnalyzerAllProvidersFailUsesSynthetic(t *testing.T) {
	a := NewAnalyzer([]Provider{
		&stubProvider{name: "OpenAI", configured: true, err: errors.New("rate limited")},
		&stubProvider{name: "DeepSeek", configured: true, err: errors.New("timeout")},
	}, testutil.NullLogger())

	post, feats, media := samplePost("hello world")
	result := a.Analyze(context.Background(), post, feats, media)

	if result.Provider != "mock" {
		t.Errorf("expected provider mock, got %s", result.Provider)
	}
}

func TestSyntheticAnalyzerIsDeterministic(t *testing.T) {
	s := NewSyntheticAnalyzer()
	post, feats, media := samplePost("Just launched our amazing AI tool! 🚀 #AI #MachineLearning")

	first := s.Analyze(post, feats, media)
	second := s.Analyze(post, feats, media)

	if first.Sentiment != second.Sentiment {
		t.Errorf("sentiment differs between runs: %+v vs %+v", first.Sentiment, second.Sentiment)
	}
	if first.ViralityPotential != second.ViralityPotential {
		t.Errorf("virality differs between runs")
	}
	if first.Sentiment.Label != "positive" {
		t.Errorf("expected positive sentiment, got %s", first.Sentiment.Label)
	}
	if first.Sentiment.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %f", first.Sentiment.Confidence)
	}
}

func TestSyntheticAnalyzerCategoriesAndIntent(t *testing.T) {
	s := NewSyntheticAnalyzer()

	tests := []struct {
		name     string
		text     string
		category string
		intent   string
	}{
		{"ai content", "New machine learning model released", "AI/ML", "discuss"},
		{"tip content", "Quick tip: always close your files", "Educational", "inform"},
		{"business content", "Our startup raised a funding round", "Business", "discuss"},
		{"plain content", "Nice weather today", "General", "discuss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, feats, media := samplePost(tt.text)
			result := s.Analyze(post, feats, media)
			found := false
			for _, c := range result.Categories {
				if c == tt.category {
					found = true
				}
			}
			if !found {
				t.Errorf("expected category %s in %v", tt.category, result.Categories)
			}
			if result.Intent != tt.intent {
				t.Errorf("expected intent %s, got %s", tt.intent, result.Intent)
			}
		})
	}
}

func TestSyntheticViralityFormula(t *testing.T) {
	s := NewSyntheticAnalyzer()
	// Positive post with 2 hashtags and 1 emoji run: 0.2 + 0.05 + 0.3.
	post, feats, media := samplePost("Great news! 🚀 #AI #ML")
	result := s.Analyze(post, feats, media)

	want := 0.55
	if diff := result.ViralityPotential - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected virality %f, got %f", want, result.ViralityPotential)
	}
}
