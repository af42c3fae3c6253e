package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/skimmerhq/skimmer/internal/models"
)

// MemoryStore keeps items and runs in maps. It backs tests and lets the
// service run end to end when no Mongo URI is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*models.ProcessedItem
	runs  map[string]*models.RunSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*models.ProcessedItem),
		runs:  make(map[string]*models.RunSummary),
	}
}

func (s *MemoryStore) UpsertItem(ctx context.Context, item *models.ProcessedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id string) (*models.ProcessedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *MemoryStore) QueryItems(ctx context.Context, params models.SearchParams) ([]*models.ProcessedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.ProcessedItem, 0)
	for _, item := range s.items {
		if matchesParams(item, params) {
			copied := *item
			matched = append(matched, &copied)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Post.CreatedAt.After(matched[j].Post.CreatedAt)
	})

	if params.Offset >= len(matched) {
		return []*models.ProcessedItem{}, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func matchesParams(item *models.ProcessedItem, params models.SearchParams) bool {
	if params.Query != "" && !strings.Contains(strings.ToLower(item.Post.Text), strings.ToLower(params.Query)) {
		return false
	}
	if params.Author != "" && !strings.Contains(strings.ToLower(item.Post.Author), strings.ToLower(params.Author)) {
		return false
	}
	if params.Category != "" {
		found := false
		for _, c := range item.Analysis.Categories {
			if c == params.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if params.Sentiment != "" && item.Analysis.Sentiment.Label != params.Sentiment {
		return false
	}
	if params.HasMedia != nil && item.MediaFeatures.HasMedia != *params.HasMedia {
		return false
	}
	if params.IsThread != nil && item.MediaFeatures.IsThread != *params.IsThread {
		return false
	}
	if params.MinQualityScore != nil && item.Analysis.QualityScore < *params.MinQualityScore {
		return false
	}
	if params.MinEngagementScore != nil && item.Analysis.EngagementPrediction < *params.MinEngagementScore {
		return false
	}
	return true
}

func (s *MemoryStore) UpsertRun(ctx context.Context, run *models.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *run
	if run.Errors != nil {
		copied.Errors = append([]string{}, run.Errors...)
	}
	s.runs[run.ID] = &copied
	return nil
}

func (s *MemoryStore) GetRun(ctx context.Context, id string) (*models.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (s *MemoryStore) RecentRuns(ctx context.Context, limit int) ([]*models.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*models.RunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		copied := *run
		runs = append(runs, &copied)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *MemoryStore) Analytics(ctx context.Context) (*models.Analytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analytics := &models.Analytics{
		SentimentDistribution: map[string]int{},
		TopCategories:         []models.CategoryCount{},
		TopAuthors:            []models.AuthorStats{},
		DailyStats:            []models.DailyStats{},
	}

	if len(s.items) == 0 {
		return analytics, nil
	}

	var qualitySum, engagementSum float64
	categories := map[string]int{}
	authors := map[string]*models.AuthorStats{}
	daily := map[string]*models.DailyStats{}

	for _, item := range s.items {
		analytics.TotalItems++
		qualitySum += item.Analysis.QualityScore
		engagementSum += item.Analysis.EngagementPrediction
		analytics.SentimentDistribution[item.Analysis.Sentiment.Label]++

		for _, c := range item.Analysis.Categories {
			categories[c]++
		}

		a, ok := authors[item.Post.Author]
		if !ok {
			a = &models.AuthorStats{Author: item.Post.Author}
			authors[item.Post.Author] = a
		}
		a.Count++
		a.AvgQuality += item.Analysis.QualityScore

		day := item.Post.CreatedAt.UTC().Format("2006-01-02")
		d, ok := daily[day]
		if !ok {
			d = &models.DailyStats{Date: day}
			daily[day] = d
		}
		d.Count++
		d.AvgQuality += item.Analysis.QualityScore

		if item.MediaFeatures.HasMedia {
			analytics.MediaStats.HasImages++
		}
		if item.MediaFeatures.IsThread {
			analytics.MediaStats.IsThread++
		}
		if item.MediaFeatures.YouTubeVideo {
			analytics.MediaStats.YouTubeVideos++
		}
	}

	analytics.AvgQualityScore = qualitySum / float64(analytics.TotalItems)
	analytics.AvgEngagementScore = engagementSum / float64(analytics.TotalItems)

	for name, count := range categories {
		analytics.TopCategories = append(analytics.TopCategories, models.CategoryCount{Category: name, Count: count})
	}
	sort.Slice(analytics.TopCategories, func(i, j int) bool {
		if analytics.TopCategories[i].Count != analytics.TopCategories[j].Count {
			return analytics.TopCategories[i].Count > analytics.TopCategories[j].Count
		}
		return analytics.TopCategories[i].Category < analytics.TopCategories[j].Category
	})
	if len(analytics.TopCategories) > 10 {
		analytics.TopCategories = analytics.TopCategories[:10]
	}

	for _, a := range authors {
		a.AvgQuality /= float64(a.Count)
		analytics.TopAuthors = append(analytics.TopAuthors, *a)
	}
	sort.Slice(analytics.TopAuthors, func(i, j int) bool {
		if analytics.TopAuthors[i].Count != analytics.TopAuthors[j].Count {
			return analytics.TopAuthors[i].Count > analytics.TopAuthors[j].Count
		}
		return analytics.TopAuthors[i].Author < analytics.TopAuthors[j].Author
	})
	if len(analytics.TopAuthors) > 10 {
		analytics.TopAuthors = analytics.TopAuthors[:10]
	}

	for _, d := range daily {
		d.AvgQuality /= float64(d.Count)
		analytics.DailyStats = append(analytics.DailyStats, *d)
	}
	sort.Slice(analytics.DailyStats, func(i, j int) bool {
		return analytics.DailyStats[i].Date > analytics.DailyStats[j].Date
	})
	if len(analytics.DailyStats) > 30 {
		analytics.DailyStats = analytics.DailyStats[:30]
	}

	return analytics, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
