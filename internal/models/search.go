package models

// SearchParams filters persisted items. Zero values mean "no filter";
// boolean filters use pointers so false can be expressed.
type SearchParams struct {
	Query              string   `json:"query,omitempty"`
	Author             string   `json:"author,omitempty"`
	Category           string   `json:"category,omitempty"`
	Sentiment          string   `json:"sentiment,omitempty"`
	HasMedia           *bool    `json:"has_media,omitempty"`
	IsThread           *bool    `json:"is_thread,omitempty"`
	MinQualityScore    *float64 `json:"min_quality_score,omitempty"`
	MinEngagementScore *float64 `json:"min_engagement_score,omitempty"`
	Limit              int      `json:"limit"`
	Offset             int      `json:"offset"`
}

type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int    `json:"count" bson:"count"`
}

type AuthorStats struct {
	Author     string  `json:"author" bson:"_id"`
	Count      int     `json:"count" bson:"count"`
	AvgQuality float64 `json:"avg_quality" bson:"avg_quality"`
}

type DailyStats struct {
	Date       string  `json:"date" bson:"_id"`
	Count      int     `json:"count" bson:"count"`
	AvgQuality float64 `json:"avg_quality" bson:"avg_quality"`
}

type MediaStats struct {
	HasImages     int `json:"has_images" bson:"has_images"`
	IsThread      int `json:"is_thread" bson:"is_thread"`
	YouTubeVideos int `json:"youtube_videos" bson:"youtube_videos"`
}

// Analytics is the aggregate view over all persisted items.
type Analytics struct {
	TotalItems            int             `json:"total_items"`
	AvgQualityScore       float64         `json:"avg_quality_score"`
	AvgEngagementScore    float64         `json:"avg_engagement_score"`
	SentimentDistribution map[string]int  `json:"sentiment_distribution"`
	TopCategories         []CategoryCount `json:"top_categories"`
	TopAuthors            []AuthorStats   `json:"top_authors"`
	MediaStats            MediaStats      `json:"media_stats"`
	DailyStats            []DailyStats    `json:"daily_stats"`
}
