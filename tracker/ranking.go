package tracker

import (
	"context"
	"sort"

	"anime-news/models"
)

type TrendingArticle struct {
	models.Article
	TrendingScore float64
	// RecentViews is the view count when the article was viewed within the
	// recent window, else 0.
	RecentViews int64
}

type PopularArticle struct {
	models.Article
	PopularityScore int64
	ViewCount       int64
}

// GetTrendingArticles ranks all by stored trending score, highest first.
// limit <= 0 returns every article.
func (t *Tracker) GetTrendingArticles(ctx context.Context, all []models.Article, limit int) []TrendingArticle {
	counts := t.loadViewCounts(ctx)
	pop := t.loadPopularity(ctx)

	out := make([]TrendingArticle, 0, len(all))
	for _, a := range all {
		item := TrendingArticle{Article: a, TrendingScore: pop.Trending[a.ID].Score}
		if rec := counts[a.ID]; t.recent(rec) {
			item.RecentViews = rec.Count
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TrendingScore > out[j].TrendingScore })
	return truncate(out, limit)
}

// GetPopularArticles ranks all by the current-period counter of tf.
func (t *Tracker) GetPopularArticles(ctx context.Context, all []models.Article, tf Timeframe, limit int) []PopularArticle {
	counts := t.loadViewCounts(ctx)
	pop := t.loadPopularity(ctx)
	bucket := bucketFor(pop, tf)
	period := PeriodKey(tf, t.clock.Now(), t.opts.Location)

	out := make([]PopularArticle, 0, len(all))
	for _, a := range all {
		out = append(out, PopularArticle{
			Article:         a,
			PopularityScore: current(bucket, a.ID, period),
			ViewCount:       counts[a.ID].Count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PopularityScore > out[j].PopularityScore })
	return truncate(out, limit)
}

// GetRelatedArticles scores all against article at the tracker's clock.
func (t *Tracker) GetRelatedArticles(article models.Article, all []models.Article, limit int) []RelatedArticle {
	return Related(article, all, limit, t.clock.Now())
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
