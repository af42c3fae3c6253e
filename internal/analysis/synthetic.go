package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/skimmerhq/skimmer/internal/models"
)

var mentionPattern = regexp.MustCompile(`@(\w+)`)

var (
	positiveMarkers = []string{"great", "amazing", "awesome", "love", "excellent", "fantastic", "good", "🚀", "💯", "❤️"}
	negativeMarkers = []string{"terrible", "awful", "hate", "horrible", "worst", "bad", "disappointed", "😞", "💔"}
	knownEntities   = []string{"FastAPI", "Python", "React", "AI", "ML", "Twitter", "API"}
)

// SyntheticAnalyzer produces a deterministic assessment from the post's own
// features, so runs without AI credentials still yield stable, comparable
// results.
type SyntheticAnalyzer struct{}

func NewSyntheticAnalyzer() *SyntheticAnalyzer { return &SyntheticAnalyzer{} }

func (s *SyntheticAnalyzer) Analyze(post models.RawPost, features models.FeatureSet, media models.MediaInfo) models.AnalysisResult {
	text := strings.ToLower(post.Text)

	sentiment := inferSentiment(text)

	categories := []string{}
	if containsAny(text, "ai", "ml", "artificial intelligence", "machine learning") {
		categories = append(categories, "AI/ML")
	}
	if containsAny(text, "tech", "technology", "software", "code", "programming") {
		categories = append(categories, "Technology")
	}
	if containsAny(text, "business", "startup", "entrepreneur", "marketing") {
		categories = append(categories, "Business")
	}
	if containsAny(text, "news", "breaking", "update", "announcement") {
		categories = append(categories, "News")
	}
	if containsAny(text, "tip", "advice", "how to", "tutorial") {
		categories = append(categories, "Educational")
	}
	if len(categories) == 0 {
		categories = []string{"General"}
	}

	topic := "General Social Media Discussion"
	switch {
	case containsAny(text, "ai", "ml"):
		topic = "AI and Machine Learning Discussion"
	case containsAny(text, "tech", "software"):
		topic = "Technology and Software Development"
	case containsAny(text, "business", "startup"):
		topic = "Business and Entrepreneurship"
	}

	entities := []string{}
	for _, m := range mentionPattern.FindAllStringSubmatch(post.Text, -1) {
		entities = append(entities, m[1])
	}
	for _, e := range knownEntities {
		if strings.Contains(text, strings.ToLower(e)) {
			entities = append(entities, e)
		}
	}
	if len(entities) > maxEntities {
		entities = entities[:maxEntities]
	}

	insights := []string{}
	if sentiment.Label == "positive" {
		insights = append(insights, "Positive sentiment indicates user satisfaction or enthusiasm")
	}
	if len(features.Hashtags) > 0 {
		insights = append(insights, "Uses "+strconv.Itoa(len(features.Hashtags))+" hashtags for better reach")
	}
	if features.QuestionCount > 0 {
		insights = append(insights, "Contains questions that encourage engagement")
	}
	if media.IsThread {
		insights = append(insights, "Thread format suggests detailed information sharing")
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	virality := float64(features.HashtagCount)*0.1 + float64(features.EmojiCount)*0.05
	if sentiment.Label == "positive" {
		virality += 0.3
	}

	intent := "discuss"
	if containsAny(text, "news", "update", "tip") {
		intent = "inform"
	}

	infoType := "opinion"
	if containsAny(text, "tip", "tutorial") {
		infoType = "educational"
	}

	audience := "general"
	if strings.Contains(text, "tech") {
		audience = "tech community"
	}

	tags := features.Hashtags
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}

	return models.AnalysisResult{
		Provider:          "mock",
		Topic:             topic,
		Tags:              tags,
		Entities:          entities,
		Concepts:          []string{"Social Media", "Communication", "Information Sharing"},
		Sentiment:         sentiment,
		Intent:            intent,
		RelevanceScore:    0.7,
		ViralityPotential: clampScore(virality),
		Actionable:        containsAny(text, "tip", "how to", "tutorial", "advice"),
		Categories:        categories,
		QualityScore:      0.7,
		InformationType:   infoType,
		TargetAudience:    audience,
		KeyInsights:       insights,
		DiscussionWorthy:  features.QuestionCount > 0 || sentiment.Confidence > 0.8,
	}
}

func inferSentiment(loweredText string) models.Sentiment {
	positive := countMarkers(loweredText, positiveMarkers)
	negative := countMarkers(loweredText, negativeMarkers)

	switch {
	case positive > negative:
		return models.Sentiment{Label: "positive", Confidence: 0.8}
	case negative > positive:
		return models.Sentiment{Label: "negative", Confidence: 0.8}
	default:
		return models.Sentiment{Label: "neutral", Confidence: 0.7}
	}
}

func countMarkers(text string, markers []string) int {
	count := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			count++
		}
	}
	return count
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
