package models

// Sentiment is a label plus the provider's confidence in it.
type Sentiment struct {
	Label      string  `json:"label" bson:"label"`
	Confidence float64 `json:"confidence" bson:"confidence"`
}

// AnalysisResult is the normalized AI content assessment for one post.
// CompositeScore, EngagementPrediction, and ContentValue are always computed
// locally after validation; provider-supplied values for them are discarded.
type AnalysisResult struct {
	Provider          string    `json:"provider" bson:"provider"`
	Topic             string    `json:"topic" bson:"topic"`
	Tags              []string  `json:"tags" bson:"tags"`
	Entities          []string  `json:"entities" bson:"entities"`
	Concepts          []string  `json:"concepts" bson:"concepts"`
	Sentiment         Sentiment `json:"sentiment" bson:"sentiment"`
	Intent            string    `json:"intent" bson:"intent"`
	RelevanceScore    float64   `json:"relevance_score" bson:"relevance_score"`
	ViralityPotential float64   `json:"virality_potential" bson:"virality_potential"`
	Actionable        bool      `json:"actionable" bson:"actionable"`
	Categories        []string  `json:"categories" bson:"categories"`
	QualityScore      float64   `json:"quality_score" bson:"quality_score"`
	InformationType   string    `json:"information_type" bson:"information_type"`
	TargetAudience    string    `json:"target_audience" bson:"target_audience"`
	KeyInsights       []string  `json:"key_insights" bson:"key_insights"`
	DiscussionWorthy  bool      `json:"discussion_worthy" bson:"discussion_worthy"`

	CompositeScore       float64 `json:"composite_score" bson:"composite_score"`
	EngagementPrediction float64 `json:"engagement_prediction" bson:"engagement_prediction"`
	ContentValue         float64 `json:"content_value" bson:"content_value"`
}
