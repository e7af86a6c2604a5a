package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-news/models"
)

func relatedFixture() (models.Article, []models.Article) {
	old := baseTime.Add(-90 * 24 * time.Hour)
	current := models.Article{
		ID:          "src",
		Title:       models.LocalizedText{models.LangEN: "Frieren season two announced"},
		Category:    "anime",
		Tags:        []string{"frieren", "madhouse"},
		PublishedAt: old,
	}
	sameCategory := models.Article{
		ID:          "cat",
		Title:       models.LocalizedText{models.LangEN: "Unrelated words here"},
		Category:    "anime",
		Tags:        []string{"frieren"},
		PublishedAt: old,
	}
	tagOnly := models.Article{
		ID:          "tag",
		Title:       models.LocalizedText{models.LangEN: "Unrelated words here"},
		Category:    "game",
		Tags:        []string{"frieren"},
		PublishedAt: old,
	}
	nothing := models.Article{
		ID:          "none",
		Title:       models.LocalizedText{models.LangEN: "Cooking"},
		Category:    "movie",
		PublishedAt: old,
	}
	return current, []models.Article{tagOnly, current, nothing, sameCategory}
}

func TestRelatedExcludesSelf(t *testing.T) {
	current, all := relatedFixture()

	got := Related(current, all, 100, baseTime)
	require.Len(t, got, len(all)-1)
	for _, r := range got {
		assert.NotEqual(t, current.ID, r.ID)
	}
}

func TestRelatedCategoryBeatsTagOnly(t *testing.T) {
	current, all := relatedFixture()

	got := Related(current, all, 2, baseTime)
	require.Len(t, got, 2)
	assert.Equal(t, "cat", got[0].ID)
	assert.Equal(t, "tag", got[1].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRelatedScoreComponents(t *testing.T) {
	now := baseTime
	current := models.Article{
		ID:       "src",
		Title:    models.LocalizedText{models.LangID: "Review Chainsaw Man movie", models.LangEN: "Chainsaw Man review"},
		Excerpt:  models.LocalizedText{models.LangEN: "Reze arc film"},
		Category: "ulasan",
		Tags:     []string{"mappa", "chainsaw-man"},
	}
	candidate := models.Article{
		ID:          "c",
		Title:       models.LocalizedText{models.LangEN: "CHAINSAW box office"},
		Excerpt:     models.LocalizedText{models.LangEN: "the Reze film"},
		Category:    "berita",
		Categories:  []string{"ulasan"},
		Tags:        []string{"mappa", "chainsaw-man", "box-office"},
		Views:       5000,
		PublishedAt: now.Add(-3 * 24 * time.Hour),
	}

	got := Related(current, []models.Article{candidate}, 5, now)
	require.Len(t, got, 1)
	// 50 category + 2*10 tags + 5*"chainsaw" + 5*"reze" + 5*"film" + min(50,20) + 10 fresh
	assert.Equal(t, 50.0+20+15+20+10, got[0].Score)
}

func TestRelatedFreshnessBuckets(t *testing.T) {
	now := baseTime
	current := models.Article{ID: "src"}
	week := models.Article{ID: "w", PublishedAt: now.Add(-6 * 24 * time.Hour)}
	month := models.Article{ID: "m", PublishedAt: now.Add(-20 * 24 * time.Hour)}
	stale := models.Article{ID: "s", PublishedAt: now.Add(-40 * 24 * time.Hour)}
	undated := models.Article{ID: "u"}

	got := Related(current, []models.Article{stale, month, undated, week}, 0, now)
	require.Len(t, got, 4)
	assert.Equal(t, "w", got[0].ID)
	assert.Equal(t, 10.0, got[0].Score)
	assert.Equal(t, "m", got[1].ID)
	assert.Equal(t, 5.0, got[1].Score)
	assert.Equal(t, 0.0, got[2].Score)
	assert.Equal(t, 0.0, got[3].Score)
}

func TestRelatedPopularityCapped(t *testing.T) {
	current := models.Article{ID: "src"}
	small := models.Article{ID: "small", Views: 250}
	huge := models.Article{ID: "huge", Views: 1_000_000}

	got := Related(current, []models.Article{small, huge}, 0, baseTime)
	assert.Equal(t, "huge", got[0].ID)
	assert.Equal(t, 20.0, got[0].Score)
	assert.Equal(t, 2.5, got[1].Score)
}
