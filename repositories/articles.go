package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"anime-news/catalog"
	"anime-news/models"
)

const ArticlesCollection = "articles"

// ArticleRepository is the MongoDB-backed catalog.
type ArticleRepository struct {
	col *mongo.Collection
}

var _ catalog.Source = (*ArticleRepository)(nil)

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection(ArticlesCollection)}
}

// UpsertBySlug upserts an article uniquely identified by slug.
// views is only written on insert so ingest never resets it.
func (r *ArticleRepository) UpsertBySlug(ctx context.Context, a *models.Article) (*mongo.UpdateResult, error) {
	if a.ID == "" || a.Slug == "" {
		return nil, fmt.Errorf("repositories: upsert article: id and slug are required")
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	filter := bson.M{"slug": a.Slug}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        a.ID,
			"created_at": a.CreatedAt,
			"views":      a.Views,
		},
		"$set": bson.M{
			"updated_at":   a.UpdatedAt,
			"title":        a.Title,
			"excerpt":      a.Excerpt,
			"category":     a.Category,
			"categories":   a.Categories,
			"tags":         a.Tags,
			"date":         a.Date,
			"published_at": a.PublishedAt,
			"thumbnail":    a.Thumbnail,
			"author":       a.Author,
			"link":         a.Link,
		},
	}
	opts := options.Update().SetUpsert(true)
	return r.col.UpdateOne(ctx, filter, update, opts)
}

// IsExistByLink checks if an article was already ingested from link.
func (r *ArticleRepository) IsExistByLink(ctx context.Context, link string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"link": link}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

func (r *ArticleRepository) GetArticleBySlug(ctx context.Context, slug string) (models.Article, error) {
	var a models.Article
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Article{}, catalog.ErrNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("repositories: find article %q: %w", slug, err)
	}
	return a, nil
}

func (r *ArticleRepository) GetAllArticles(ctx context.Context) ([]models.Article, error) {
	return r.find(ctx, bson.M{}, newestFirst())
}

func (r *ArticleRepository) GetArticlesByCategory(ctx context.Context, category string) ([]models.Article, error) {
	return r.find(ctx, filterFor(catalog.ListOptions{Category: category}), newestFirst())
}

func (r *ArticleRepository) GetArticlesByTag(ctx context.Context, tag string) ([]models.Article, error) {
	return r.find(ctx, filterFor(catalog.ListOptions{Tag: tag}), newestFirst())
}

// List returns articles with filters and pagination, sorted by published_at desc
func (r *ArticleRepository) List(ctx context.Context, opt catalog.ListOptions) ([]models.Article, int64, error) {
	opt = opt.Normalize()
	filter := filterFor(opt)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("repositories: count articles: %w", err)
	}

	skip := int64((opt.Page - 1) * opt.PageSize)
	findOpts := newestFirst().SetSkip(skip).SetLimit(int64(opt.PageSize))
	results, err := r.find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// IncrementViews bumps the provider-side popularity baseline.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"views": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *ArticleRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Article, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("repositories: find articles: %w", err)
	}
	defer cur.Close(ctx)

	results := []models.Article{}
	for cur.Next(ctx) {
		var a models.Article
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("repositories: decode article: %w", err)
		}
		results = append(results, a)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "published_at", Value: -1},
		{Key: "_id", Value: -1},
	})
}

// filterFor builds case-insensitive anchored matches on category/categories and tags.
func filterFor(opt catalog.ListOptions) bson.M {
	filter := bson.M{}
	var and []bson.M
	if opt.Category != "" {
		re := exact(opt.Category)
		and = append(and, bson.M{"$or": []bson.M{
			{"category": re},
			{"categories": re},
		}})
	}
	if opt.Tag != "" {
		and = append(and, bson.M{"tags": exact(opt.Tag)})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter
}

func exact(v string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}
}
