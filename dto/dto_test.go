package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-news/models"
	"anime-news/routing"
	"anime-news/tracker"
)

func sampleArticle() models.Article {
	return models.Article{
		ID:       "1",
		Slug:     "frieren",
		Title:    models.LocalizedText{models.LangID: "Judul", models.LangEN: "Title"},
		Excerpt:  models.LocalizedText{models.LangID: "Ringkasan"},
		Category: "anime",
		Views:    10,
	}
}

func TestNewArticleDTOLocalizes(t *testing.T) {
	en := NewArticleDTO(sampleArticle(), "en")
	assert.Equal(t, "Title", en.Title)
	assert.Equal(t, "Ringkasan", en.Excerpt)
	assert.Equal(t, "/anime/frieren", en.Path)
	assert.Equal(t, []string{}, en.Tags)

	fallback := NewArticleDTO(sampleArticle(), "fr")
	assert.Equal(t, models.LangID, fallback.Lang)
	assert.Equal(t, "Judul", fallback.Title)
}

func TestEmbeddedDTOFlattensJSON(t *testing.T) {
	items := NewTrendingDTOs([]tracker.TrendingArticle{{Article: sampleArticle(), TrendingScore: 2, RecentViews: 1}}, "en")
	b, err := json.Marshal(items[0])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Title", m["title"])
	assert.Equal(t, 2.0, m["trending_score"])
	assert.Equal(t, 1.0, m["recent_views"])
}

func TestNewArticleStatsDTO(t *testing.T) {
	assert.Nil(t, NewArticleStatsDTO(models.ViewRecord{}, false).LastViewed)

	at := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	d := NewArticleStatsDTO(models.ViewRecord{Count: 3, Sessions: 3, LastViewed: at}, true)
	require.NotNil(t, d.LastViewed)
	assert.True(t, d.LastViewed.Equal(at))
	assert.True(t, d.RecentlyViewed)
}

func TestNewRouteDTO(t *testing.T) {
	d := NewRouteDTO(routing.Resolve("/nope/nope"))
	assert.True(t, d.NotFound)
	assert.Equal(t, "not-found", d.Page)

	d = NewRouteDTO(routing.Resolve("/anime?page=2"))
	assert.False(t, d.NotFound)
	assert.Equal(t, "2", d.PageNum)
}
