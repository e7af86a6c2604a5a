package dto

import (
	"time"

	"anime-news/models"
	"anime-news/tracker"
)

type TrendingArticleDTO struct {
	ArticleDTO
	TrendingScore float64 `json:"trending_score"`
	RecentViews   int64   `json:"recent_views"`
}

type PopularArticleDTO struct {
	ArticleDTO
	PopularityScore int64 `json:"popularity_score"`
	ViewCount       int64 `json:"view_count"`
}

type RelatedArticleDTO struct {
	ArticleDTO
	Score float64 `json:"score"`
}

// ViewResultDTO is returned after a view was tracked.
type ViewResultDTO struct {
	Counted   bool  `json:"counted"`
	ViewCount int64 `json:"view_count"`
}

type ArticleStatsDTO struct {
	ViewCount      int64      `json:"view_count"`
	Sessions       int64      `json:"sessions"`
	RecentlyViewed bool       `json:"recently_viewed"`
	LastViewed     *time.Time `json:"last_viewed,omitempty"`
}

type LastViewedDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category"`
	ViewedAt  time.Time `json:"viewed_at"`
	Thumbnail string    `json:"thumbnail"`
	Path      string    `json:"path"`
}

type CategoryDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Path  string `json:"path"`
}

func NewTrendingDTOs(items []tracker.TrendingArticle, lang string) []TrendingArticleDTO {
	out := make([]TrendingArticleDTO, 0, len(items))
	for _, it := range items {
		out = append(out, TrendingArticleDTO{
			ArticleDTO:    NewArticleDTO(it.Article, lang),
			TrendingScore: it.TrendingScore,
			RecentViews:   it.RecentViews,
		})
	}
	return out
}

func NewPopularDTOs(items []tracker.PopularArticle, lang string) []PopularArticleDTO {
	out := make([]PopularArticleDTO, 0, len(items))
	for _, it := range items {
		out = append(out, PopularArticleDTO{
			ArticleDTO:      NewArticleDTO(it.Article, lang),
			PopularityScore: it.PopularityScore,
			ViewCount:       it.ViewCount,
		})
	}
	return out
}

func NewRelatedDTOs(items []tracker.RelatedArticle, lang string) []RelatedArticleDTO {
	out := make([]RelatedArticleDTO, 0, len(items))
	for _, it := range items {
		out = append(out, RelatedArticleDTO{
			ArticleDTO: NewArticleDTO(it.Article, lang),
			Score:      it.Score,
		})
	}
	return out
}

func NewArticleStatsDTO(rec models.ViewRecord, recent bool) ArticleStatsDTO {
	d := ArticleStatsDTO{ViewCount: rec.Count, Sessions: rec.Sessions, RecentlyViewed: recent}
	if !rec.LastViewed.IsZero() {
		lv := rec.LastViewed
		d.LastViewed = &lv
	}
	return d
}

func NewLastViewedDTOs(entries []models.LastViewedEntry, lang string) []LastViewedDTO {
	lang = NormalizeLang(lang)
	out := make([]LastViewedDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, LastViewedDTO{
			ID:        e.ID,
			Title:     e.Title.Get(lang),
			Slug:      e.Slug,
			Category:  e.Category,
			ViewedAt:  e.ViewedAt,
			Thumbnail: e.Thumbnail,
			Path:      ArticlePath(e.Category, e.Slug),
		})
	}
	return out
}
