// Package catalog supplies articles to the portal. The tracker only reads them.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"anime-news/models"
)

var ErrNotFound = errors.New("catalog: article not found")

// Source is the article data provider.
type Source interface {
	GetAllArticles(ctx context.Context) ([]models.Article, error)
	GetArticlesByCategory(ctx context.Context, category string) ([]models.Article, error)
	GetArticlesByTag(ctx context.Context, tag string) ([]models.Article, error)
	// GetArticleBySlug returns ErrNotFound when no article has slug.
	GetArticleBySlug(ctx context.Context, slug string) (models.Article, error)
	List(ctx context.Context, opt ListOptions) ([]models.Article, int64, error)
}

type ListOptions struct {
	Page     int
	PageSize int
	Category string
	Tag      string
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Normalize clamps paging to sane values.
func (o ListOptions) Normalize() ListOptions {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.PageSize <= 0 || o.PageSize > MaxPageSize {
		o.PageSize = DefaultPageSize
	}
	o.Category = strings.TrimSpace(o.Category)
	o.Tag = strings.TrimSpace(o.Tag)
	return o
}

// HasCategory matches the primary or any extra category, case-insensitively.
func HasCategory(a models.Article, category string) bool {
	for _, c := range a.CategorySet() {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func HasTag(a models.Article, tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SortNewest orders by published_at desc, then id desc.
func SortNewest(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID > b.ID
	})
}

// Filter keeps the articles matching opt's category and tag. Both filters apply together.
func Filter(articles []models.Article, opt ListOptions) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if opt.Category != "" && !HasCategory(a, opt.Category) {
			continue
		}
		if opt.Tag != "" && !HasTag(a, opt.Tag) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Paginate returns one page of articles and the total count.
func Paginate(articles []models.Article, opt ListOptions) ([]models.Article, int64) {
	opt = opt.Normalize()
	total := int64(len(articles))
	start := (opt.Page - 1) * opt.PageSize
	if start >= len(articles) {
		return []models.Article{}, total
	}
	end := start + opt.PageSize
	if end > len(articles) {
		end = len(articles)
	}
	return articles[start:end], total
}
