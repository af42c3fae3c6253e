package sources

import (
	"context"
	"time"

	"github.com/skimmerhq/skimmer/internal/models"
)

// SyntheticSource is the terminal fallback. It always succeeds and returns
// the same five sample posts (with timestamps relative to now), so the rest
// of the pipeline can be exercised with no credentials at all.
type SyntheticSource struct{}

func NewSyntheticSource() *SyntheticSource { return &SyntheticSource{} }

func (s *SyntheticSource) Name() string { return "mock" }

func (s *SyntheticSource) Configured() bool { return true }

func (s *SyntheticSource) Fetch(ctx context.Context) ([]models.RawPost, error) {
	now := time.Now().UTC()
	return []models.RawPost{
		{
			ID:        "1",
			Text:      "Just launched our new AI-powered Twitter scraper! 🚀 It automatically analyzes sentiment, extracts topics, and identifies trends. Perfect for social media monitoring and research. #AI #MachineLearning #SocialMedia",
			Author:    "TechInnovator",
			CreatedAt: now.Add(-2 * time.Hour),
			URL:       "https://twitter.com/TechInnovator/status/1",
			MediaURLs: []string{},
		},
		{
			ID:        "2",
			Text:      "Thread 🧵 about the future of web scraping: 1/5\n\nWeb scraping is evolving rapidly with AI integration. Modern scrapers can now understand context, handle dynamic content, and provide intelligent data extraction.",
			Author:    "DataScientist",
			CreatedAt: now.Add(-5 * time.Hour),
			URL:       "https://twitter.com/DataScientist/status/2",
			MediaURLs: []string{"https://example.com/image1.jpg"},
		},
		{
			ID:        "3",
			Text:      "Really impressed with the latest FastAPI updates! The performance improvements are incredible. Building APIs has never been easier 💯 #FastAPI #Python #WebDev",
			Author:    "PythonDev",
			CreatedAt: now.Add(-8 * time.Hour),
			URL:       "https://twitter.com/PythonDev/status/3",
			MediaURLs: []string{},
		},
		{
			ID:        "4",
			Text:      "Breaking: Major breakthrough in natural language processing! New transformer model achieves 95% accuracy on sentiment analysis tasks. This could revolutionize how we analyze social media data.",
			Author:    "AIResearcher",
			CreatedAt: now.Add(-12 * time.Hour),
			URL:       "https://twitter.com/AIResearcher/status/4",
			MediaURLs: []string{},
		},
		{
			ID:        "5",
			Text:      "Quick tip for developers: Always validate your API responses! I spent 3 hours debugging an issue that was caused by assuming API data structure. Lesson learned 😅 #DevTips #API #LessonsLearned",
			Author:    "SeniorDev",
			CreatedAt: now.Add(-16 * time.Hour),
			URL:       "https://twitter.com/SeniorDev/status/5",
			MediaURLs: []string{},
		},
	}, nil
}
