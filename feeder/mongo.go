package feeder

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"anime-news/models"
	"anime-news/repositories"
)

type articleRepo struct {
	r *repositories.ArticleRepository
}

func (a articleRepo) IsExistByLink(ctx context.Context, link string) (bool, error) {
	return a.r.IsExistByLink(ctx, link)
}

func (a articleRepo) UpsertBySlug(ctx context.Context, art *models.Article) error {
	_, err := a.r.UpsertBySlug(ctx, art)
	return err
}

type feedRepo struct {
	*repositories.FeedRepository
}

func (f feedRepo) UpsertFeed(ctx context.Context, feed *models.Feed) error {
	_, err := f.UpsertByURL(ctx, feed)
	return err
}

// NewMongoIngester wires the ingester to the articles and feeds collections of db.
func NewMongoIngester(db *mongo.Database, opts ...IngesterOption) *Ingester {
	all := append([]IngesterOption{WithFeedStore(feedRepo{repositories.NewFeedRepository(db)})}, opts...)
	return NewIngester(articleRepo{repositories.NewArticleRepository(db)}, all...)
}
