package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skimmerhq/skimmer/internal/models"
)

const (
	itemsCollection = "items"
	runsCollection  = "runs"
)

// MongoStore persists items and runs in MongoDB. Documents are keyed by the
// application-level id field, not Mongo's _id, so upserts are idempotent
// across runs.
type MongoStore struct {
	client *mongo.Client
	items  *mongo.Collection
	runs   *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client: client,
		items:  db.Collection(itemsCollection),
		runs:   db.Collection(runsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "post.created_at", Value: -1}}},
		{Keys: bson.D{{Key: "post.author", Value: 1}}},
		{Keys: bson.D{{Key: "analysis.sentiment.label", Value: 1}}},
		{Keys: bson.D{{Key: "analysis.categories", Value: 1}}},
		{Keys: bson.D{{Key: "analysis.quality_score", Value: -1}}},
		{Keys: bson.D{{Key: "analysis.engagement_prediction", Value: -1}}},
		{Keys: bson.D{{Key: "media_features.has_media", Value: 1}}},
		{Keys: bson.D{{Key: "media_features.is_thread", Value: 1}}},
		{Keys: bson.D{{Key: "post.text", Value: "text"}}},
	}
	if _, err := s.items.Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return err
	}

	runIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "started_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := s.runs.Indexes().CreateMany(ctx, runIndexes)
	return err
}

func (s *MongoStore) UpsertItem(ctx context.Context, item *models.ProcessedItem) error {
	_, err := s.items.UpdateOne(ctx,
		bson.M{"id": item.ID},
		bson.M{"$set": item},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

func (s *MongoStore) GetItem(ctx context.Context, id string) (*models.ProcessedItem, error) {
	var item models.ProcessedItem
	err := s.items.FindOne(ctx, bson.M{"id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return &item, nil
}

func (s *MongoStore) QueryItems(ctx context.Context, params models.SearchParams) ([]*models.ProcessedItem, error) {
	query := bson.M{}
	if params.Query != "" {
		query["$text"] = bson.M{"$search": params.Query}
	}
	if params.Author != "" {
		query["post.author"] = bson.M{"$regex": params.Author, "$options": "i"}
	}
	if params.Category != "" {
		query["analysis.categories"] = params.Category
	}
	if params.Sentiment != "" {
		query["analysis.sentiment.label"] = params.Sentiment
	}
	if params.HasMedia != nil {
		query["media_features.has_media"] = *params.HasMedia
	}
	if params.IsThread != nil {
		query["media_features.is_thread"] = *params.IsThread
	}
	if params.MinQualityScore != nil {
		query["analysis.quality_score"] = bson.M{"$gte": *params.MinQualityScore}
	}
	if params.MinEngagementScore != nil {
		query["analysis.engagement_prediction"] = bson.M{"$gte": *params.MinEngagementScore}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "post.created_at", Value: -1}}).
		SetSkip(int64(params.Offset)).
		SetLimit(int64(params.Limit))

	cursor, err := s.items.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*models.ProcessedItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

func (s *MongoStore) UpsertRun(ctx context.Context, run *models.RunSummary) error {
	_, err := s.runs.UpdateOne(ctx,
		bson.M{"id": run.ID},
		bson.M{"$set": run},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *MongoStore) GetRun(ctx context.Context, id string) (*models.RunSummary, error) {
	var run models.RunSummary
	err := s.runs.FindOne(ctx, bson.M{"id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}

func (s *MongoStore) RecentRuns(ctx context.Context, limit int) ([]*models.RunSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []*models.RunSummary{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

type facetResult struct {
	TotalStats []struct {
		TotalItems         int     `bson:"total_items"`
		AvgQualityScore    float64 `bson:"avg_quality_score"`
		AvgEngagementScore float64 `bson:"avg_engagement_score"`
	} `bson:"total_stats"`
	SentimentDistribution []struct {
		Label string `bson:"_id"`
		Count int    `bson:"count"`
	} `bson:"sentiment_distribution"`
	TopCategories []models.CategoryCount `bson:"top_categories"`
	TopAuthors    []models.AuthorStats   `bson:"top_authors"`
	MediaStats    []models.MediaStats    `bson:"media_stats"`
	DailyStats    []models.DailyStats    `bson:"daily_stats"`
}

// Analytics runs a single $facet aggregation so all sub-reports see one
// consistent snapshot of the collection.
func (s *MongoStore) Analytics(ctx context.Context) (*models.Analytics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"total_stats": bson.A{
				bson.M{"$group": bson.M{
					"_id":                  nil,
					"total_items":          bson.M{"$sum": 1},
					"avg_quality_score":    bson.M{"$avg": "$analysis.quality_score"},
					"avg_engagement_score": bson.M{"$avg": "$analysis.engagement_prediction"},
				}},
			},
			"sentiment_distribution": bson.A{
				bson.M{"$group": bson.M{
					"_id":   "$analysis.sentiment.label",
					"count": bson.M{"$sum": 1},
				}},
			},
			"top_categories": bson.A{
				bson.M{"$unwind": "$analysis.categories"},
				bson.M{"$group": bson.M{
					"_id":   "$analysis.categories",
					"count": bson.M{"$sum": 1},
				}},
				bson.M{"$sort": bson.M{"count": -1}},
				bson.M{"$limit": 10},
			},
			"top_authors": bson.A{
				bson.M{"$group": bson.M{
					"_id":         "$post.author",
					"count":       bson.M{"$sum": 1},
					"avg_quality": bson.M{"$avg": "$analysis.quality_score"},
				}},
				bson.M{"$sort": bson.M{"count": -1}},
				bson.M{"$limit": 10},
			},
			"media_stats": bson.A{
				bson.M{"$group": bson.M{
					"_id":            nil,
					"has_images":     bson.M{"$sum": bson.M{"$cond": bson.A{"$media_features.has_media", 1, 0}}},
					"is_thread":      bson.M{"$sum": bson.M{"$cond": bson.A{"$media_features.is_thread", 1, 0}}},
					"youtube_videos": bson.M{"$sum": bson.M{"$cond": bson.A{"$media_features.youtube_video", 1, 0}}},
				}},
			},
			"daily_stats": bson.A{
				bson.M{"$group": bson.M{
					"_id":         bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$post.created_at"}},
					"count":       bson.M{"$sum": 1},
					"avg_quality": bson.M{"$avg": "$analysis.quality_score"},
				}},
				bson.M{"$sort": bson.M{"_id": -1}},
				bson.M{"$limit": 30},
			},
		}}},
	}

	cursor, err := s.items.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate analytics: %w", err)
	}
	defer cursor.Close(ctx)

	var results []facetResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode analytics: %w", err)
	}

	analytics := &models.Analytics{
		SentimentDistribution: map[string]int{},
		TopCategories:         []models.CategoryCount{},
		TopAuthors:            []models.AuthorStats{},
		DailyStats:            []models.DailyStats{},
	}
	if len(results) == 0 {
		return analytics, nil
	}

	facets := results[0]
	if len(facets.TotalStats) > 0 {
		analytics.TotalItems = facets.TotalStats[0].TotalItems
		analytics.AvgQualityScore = facets.TotalStats[0].AvgQualityScore
		analytics.AvgEngagementScore = facets.TotalStats[0].AvgEngagementScore
	}
	for _, s := range facets.SentimentDistribution {
		analytics.SentimentDistribution[s.Label] = s.Count
	}
	analytics.TopCategories = facets.TopCategories
	analytics.TopAuthors = facets.TopAuthors
	if len(facets.MediaStats) > 0 {
		analytics.MediaStats = facets.MediaStats[0]
	}
	analytics.DailyStats = facets.DailyStats
	return analytics, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
