package models

import "time"

// RawPost is a fetched social post before any processing. Immutable once
// returned by a source adapter.
type RawPost struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Author    string    `json:"author" bson:"author"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	URL       string    `json:"url" bson:"url"`
	MediaURLs []string  `json:"media_urls" bson:"media_urls"`
}

// FeatureSet holds the deterministic lexical and temporal signals derived
// from a post's text and timestamp.
type FeatureSet struct {
	HashtagCount     int     `json:"hashtag_count" bson:"hashtag_count"`
	MentionCount     int     `json:"mention_count" bson:"mention_count"`
	URLCount         int     `json:"url_count" bson:"url_count"`
	EmojiCount       int     `json:"emoji_count" bson:"emoji_count"`
	ExclamationCount int     `json:"exclamation_count" bson:"exclamation_count"`
	QuestionCount    int     `json:"question_count" bson:"question_count"`
	CapsRatio        float64 `json:"caps_ratio" bson:"caps_ratio"`
	WordCount        int     `json:"word_count" bson:"word_count"`
	CharCount        int     `json:"char_count" bson:"char_count"`
	HourOfDay        int     `json:"hour_of_day" bson:"hour_of_day"`
	DayOfWeek        int     `json:"day_of_week" bson:"day_of_week"`
	IsReply          bool    `json:"is_reply" bson:"is_reply"`
	IsRetweet        bool    `json:"is_retweet" bson:"is_retweet"`
	ThreadIndicators bool    `json:"thread_indicators" bson:"thread_indicators"`
	Hashtags         []string `json:"hashtags" bson:"hashtags"`
	Mentions         []string `json:"mentions" bson:"mentions"`
	URLs             []string `json:"urls" bson:"urls"`

	ReadabilityScore   float64 `json:"readability_score" bson:"readability_score"`
	PositiveIndicators int     `json:"positive_indicators" bson:"positive_indicators"`
	NegativeIndicators int     `json:"negative_indicators" bson:"negative_indicators"`
	TechIndicators     int     `json:"tech_indicators" bson:"tech_indicators"`
	BusinessIndicators int     `json:"business_indicators" bson:"business_indicators"`
}

// MediaInfo holds media signals detected from text patterns alone; no media
// is ever fetched to compute it.
type MediaInfo struct {
	HasImages    bool     `json:"has_images" bson:"has_images"`
	HasVideo     bool     `json:"has_video" bson:"has_video"`
	IsThread     bool     `json:"is_thread" bson:"is_thread"`
	YouTubeLinks []string `json:"youtube_links" bson:"youtube_links"`
}

// MediaFeatures summarizes attached media. ImageTags is populated only when
// the vision enricher is enabled.
type MediaFeatures struct {
	HasMedia     bool     `json:"has_media" bson:"has_media"`
	ImageCount   int      `json:"image_count" bson:"image_count"`
	IsThread     bool     `json:"is_thread" bson:"is_thread"`
	YouTubeVideo bool     `json:"youtube_video" bson:"youtube_video"`
	ImageTags    []string `json:"image_tags,omitempty" bson:"image_tags,omitempty"`
}

// ProcessedItem is the persisted record for one post in one run. Items are
// upserted by ID, so re-processing the same post is last-write-wins.
type ProcessedItem struct {
	ID                  string        `json:"id" bson:"id"`
	Post                RawPost       `json:"post" bson:"post"`
	Features            FeatureSet    `json:"features" bson:"features"`
	Media               MediaInfo     `json:"media" bson:"media"`
	MediaFeatures       MediaFeatures `json:"media_features" bson:"media_features"`
	Analysis            AnalysisResult `json:"analysis" bson:"analysis"`
	EngagementPotential float64       `json:"engagement_potential" bson:"engagement_potential"`
	Source              string        `json:"source" bson:"source"`
	ProcessedAt         time.Time     `json:"processed_at" bson:"processed_at"`
}
