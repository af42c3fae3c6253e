package scoring

import (
	"math"
	"testing"

	"github.com/skimmerhq/skimmer/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEngagementPotential(t *testing.T) {
	tests := []struct {
		name string
		f    models.FeatureSet
		want float64
	}{
		{"baseline", models.FeatureSet{WordCount: 5, HourOfDay: 3}, 0.5},
		{"hashtag bonus capped", models.FeatureSet{HashtagCount: 10, WordCount: 5, HourOfDay: 3}, 0.7},
		{"business hours bonus", models.FeatureSet{WordCount: 5, HourOfDay: 12}, 0.55},
		{"ideal word count", models.FeatureSet{WordCount: 20, HourOfDay: 3}, 0.6},
		{"urls penalize", models.FeatureSet{URLCount: 2, WordCount: 5, HourOfDay: 3}, 0.4},
		{"questions add up", models.FeatureSet{QuestionCount: 2, WordCount: 5, HourOfDay: 3}, 0.7},
		{"clamped at one", models.FeatureSet{HashtagCount: 10, MentionCount: 10, QuestionCount: 5, EmojiCount: 10, WordCount: 20, HourOfDay: 12}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementPotential(tt.f); !almostEqual(got, tt.want) {
				t.Errorf("EngagementPotential = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCompositeScore(t *testing.T) {
	a := models.AnalysisResult{
		RelevanceScore:    0.8,
		QualityScore:      0.6,
		ViralityPotential: 0.5,
		Actionable:        true,
		DiscussionWorthy:  false,
	}
	want := 0.8*0.3 + 0.6*0.3 + 0.5*0.2 + 0.1
	if got := CompositeScore(a); !almostEqual(got, want) {
		t.Errorf("CompositeScore = %f, want %f", got, want)
	}
}

func TestEngagementPrediction(t *testing.T) {
	a := models.AnalysisResult{
		ViralityPotential: 0.5,
		Sentiment:         models.Sentiment{Label: "positive", Confidence: 0.9},
		DiscussionWorthy:  true,
		KeyInsights:       []string{"one"},
		Actionable:        false,
	}
	want := 0.5*0.4 + 0.2 + 0.2 + 0.1
	if got := EngagementPrediction(a); !almostEqual(got, want) {
		t.Errorf("EngagementPrediction = %f, want %f", got, want)
	}

	// Confidence at exactly 0.7 does not earn the bonus.
	a.Sentiment.Confidence = 0.7
	want = 0.5*0.4 + 0.2 + 0.1
	if got := EngagementPrediction(a); !almostEqual(got, want) {
		t.Errorf("EngagementPrediction at threshold = %f, want %f", got, want)
	}
}

func TestContentValue(t *testing.T) {
	a := models.AnalysisResult{
		RelevanceScore: 0.5,
		QualityScore:   0.5,
		Actionable:     true,
		KeyInsights:    []string{},
	}
	want := 0.5*0.4 + 0.5*0.3 + 0.2
	if got := ContentValue(a); !almostEqual(got, want) {
		t.Errorf("ContentValue = %f, want %f", got, want)
	}
}

func TestApplyDerivedOverwritesProviderValues(t *testing.T) {
	a := models.AnalysisResult{
		RelevanceScore:       0.5,
		QualityScore:         0.5,
		CompositeScore:       0.99,
		EngagementPrediction: 0.99,
		ContentValue:         0.99,
	}
	ApplyDerived(&a)

	if a.CompositeScore == 0.99 || a.EngagementPrediction == 0.99 || a.ContentValue == 0.99 {
		t.Errorf("provider-supplied derived scores must be recomputed: %+v", a)
	}
	if !almostEqual(a.CompositeScore, 0.5*0.3+0.5*0.3) {
		t.Errorf("CompositeScore = %f", a.CompositeScore)
	}
}
