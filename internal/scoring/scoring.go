// Package scoring holds the pure score formulas applied to feature sets and
// normalized analysis results. Every score is clamped to [0,1].
package scoring

import "github.com/skimmerhq/skimmer/internal/models"

// EngagementPotential predicts engagement from lexical and temporal
// features alone.
func EngagementPotential(f models.FeatureSet) float64 {
	score := 0.5
	score += min2(0.2, float64(f.HashtagCount)*0.05)
	score += min2(0.1, float64(f.MentionCount)*0.03)
	score += float64(f.QuestionCount) * 0.1
	score += min2(0.15, float64(f.EmojiCount)*0.03)
	score -= float64(f.URLCount) * 0.05

	if f.WordCount >= 10 && f.WordCount <= 30 {
		score += 0.1
	}
	if f.HourOfDay >= 9 && f.HourOfDay <= 17 {
		score += 0.05
	}

	return clamp01(score)
}

// CompositeScore blends relevance, quality, and virality with the
// actionable and discussion-worthy flags.
func CompositeScore(a models.AnalysisResult) float64 {
	score := a.RelevanceScore*0.3 +
		a.QualityScore*0.3 +
		a.ViralityPotential*0.2 +
		indicator(a.Actionable)*0.1 +
		indicator(a.DiscussionWorthy)*0.1
	return clamp01(score)
}

// EngagementPrediction estimates how much interaction the post will draw.
func EngagementPrediction(a models.AnalysisResult) float64 {
	score := a.ViralityPotential*0.4 +
		indicator(a.Sentiment.Confidence > 0.7)*0.2 +
		indicator(a.DiscussionWorthy)*0.2 +
		indicator(len(a.KeyInsights) > 0)*0.1 +
		indicator(a.Actionable)*0.1
	return clamp01(score)
}

// ContentValue measures how useful the post's content is to a reader.
func ContentValue(a models.AnalysisResult) float64 {
	score := a.RelevanceScore*0.4 +
		a.QualityScore*0.3 +
		indicator(a.Actionable)*0.2 +
		indicator(len(a.KeyInsights) > 0)*0.1
	return clamp01(score)
}

// ApplyDerived recomputes the three derived scores in place. Callers must
// never trust provider-supplied values for these fields.
func ApplyDerived(a *models.AnalysisResult) {
	a.CompositeScore = CompositeScore(*a)
	a.EngagementPrediction = EngagementPrediction(*a)
	a.ContentValue = ContentValue(*a)
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
