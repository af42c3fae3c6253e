package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/skimmerhq/skimmer/internal/models"
)

const (
	maxTags       = 8
	maxEntities   = 15
	maxConcepts   = 10
	maxCategories = 5
	maxInsights   = 5
	maxTopicLen   = 100
)

// parseAndValidate decodes a provider's raw completion and normalizes every
// field. Providers return loosely shaped JSON: sentiment may be a bare
// string, scores may arrive as strings, lists may run long. Anything
// missing or malformed falls back to a safe default rather than failing
// the post.
func parseAndValidate(raw string, provider string) (models.AnalysisResult, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("completion is not valid JSON: %w", err)
	}
	return normalize(doc, provider), nil
}

func normalize(doc map[string]interface{}, provider string) models.AnalysisResult {
	result := models.AnalysisResult{
		Provider:          provider,
		Topic:             truncate(asString(doc["topic"], "No topic extracted"), maxTopicLen),
		Tags:              asStringList(doc["tags"], maxTags),
		Entities:          asStringList(doc["entities"], maxEntities),
		Concepts:          asStringList(doc["concepts"], maxConcepts),
		Sentiment:         asSentiment(doc["sentiment"]),
		Intent:            asString(doc["intent"], "unknown"),
		RelevanceScore:    asScore(doc["relevance_score"]),
		ViralityPotential: asScore(doc["virality_potential"]),
		Actionable:        asBool(doc["actionable"]),
		Categories:        asStringList(doc["categories"], maxCategories),
		QualityScore:      asScore(doc["quality_score"]),
		InformationType:   asString(doc["information_type"], "unknown"),
		TargetAudience:    asString(doc["target_audience"], "general"),
		KeyInsights:       asStringList(doc["key_insights"], maxInsights),
		DiscussionWorthy:  asBool(doc["discussion_worthy"]),
	}
	if len(result.Categories) == 0 {
		result.Categories = []string{"uncategorized"}
	}
	return result
}

// asSentiment handles the bare-string shorthand some models emit
// ("sentiment": "positive") as well as the full object form.
func asSentiment(v interface{}) models.Sentiment {
	switch s := v.(type) {
	case string:
		return models.Sentiment{Label: s, Confidence: 0.5}
	case map[string]interface{}:
		return models.Sentiment{
			Label:      asString(s["label"], "neutral"),
			Confidence: asScore(s["confidence"]),
		}
	default:
		return models.Sentiment{Label: "neutral", Confidence: 0.5}
	}
}

func asString(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func asStringList(v interface{}, limit int) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case float64:
			out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
		}
	}
	return out
}

// asScore coerces numbers and numeric strings to a [0,1] float; anything
// else becomes 0.5.
func asScore(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return clampScore(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return clampScore(f)
		}
	}
	return 0.5
}

func asBool(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
