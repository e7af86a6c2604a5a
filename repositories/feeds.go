package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"anime-news/models"
)

const FeedsCollection = "feeds"

type FeedRepository struct {
	col *mongo.Collection
}

func NewFeedRepository(db *mongo.Database) *FeedRepository {
	return &FeedRepository{col: db.Collection(FeedsCollection)}
}

// UpsertByURL upserts a feed document identified by its url.
func (r *FeedRepository) UpsertByURL(ctx context.Context, f *models.Feed) (*mongo.UpdateResult, error) {
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	filter := bson.M{"url": f.URL}
	update := bson.M{
		"$setOnInsert": bson.M{
			"created_at": f.CreatedAt,
		},
		"$set": bson.M{
			"updated_at": f.UpdatedAt,
			"name":       f.Name,
			"url":        f.URL,
			"category":   f.Category,
			"lang":       f.Lang,
		},
	}
	opts := options.Update().SetUpsert(true)
	return r.col.UpdateOne(ctx, filter, update, opts)
}

// MarkFetched records the last successful fetch of url and how many items were new.
func (r *FeedRepository) MarkFetched(ctx context.Context, url string, at time.Time, inserted int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"url": url}, bson.M{
		"$set": bson.M{"last_fetched_at": at, "last_inserted": inserted, "updated_at": time.Now()},
	})
	return err
}

// GetByURL finds a feed by its url.
func (r *FeedRepository) GetByURL(ctx context.Context, url string) (*models.Feed, error) {
	var f models.Feed
	if err := r.col.FindOne(ctx, bson.M{"url": url}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}
