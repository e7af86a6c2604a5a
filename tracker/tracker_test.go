package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-news/config"
	"anime-news/models"
	"anime-news/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var baseTime = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, opts ...Option) (*Tracker, *fakeClock, *storage.MemoryStore) {
	t.Helper()
	clock := &fakeClock{now: baseTime}
	store := storage.NewMemoryStore()
	all := append([]Option{WithClock(clock)}, opts...)
	return New(store, all...), clock, store
}

func article(id string) models.Article {
	return models.Article{
		ID:       id,
		Slug:     "slug-" + id,
		Title:    models.LocalizedText{models.LangID: "Judul " + id, models.LangEN: "Title " + id},
		Category: "anime",
	}
}

func TestNeverViewed(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), tr.GetViewCount(ctx, "42"))
	assert.False(t, tr.IsRecentlyViewed(ctx, "42"))
	assert.Empty(t, tr.GetLastViewed(ctx))
}

func TestTrackArticleViewDedup(t *testing.T) {
	tr, clock, _ := newTestTracker(t)
	ctx := context.Background()
	a := article("1")

	counted, err := tr.TrackArticleView(ctx, a)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, int64(1), tr.GetViewCount(ctx, "1"))
	assert.True(t, tr.IsRecentlyViewed(ctx, "1"))

	clock.Advance(10 * time.Minute)
	counted, err = tr.TrackArticleView(ctx, a)
	require.NoError(t, err)
	assert.False(t, counted)
	assert.Equal(t, int64(1), tr.GetViewCount(ctx, "1"))

	clock.Advance(21 * time.Minute)
	counted, err = tr.TrackArticleView(ctx, a)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, int64(2), tr.GetViewCount(ctx, "1"))

	rec := tr.GetViewRecord(ctx, "1")
	assert.Equal(t, rec.Count, rec.Sessions)
	assert.True(t, rec.LastViewed.Equal(clock.Now()))
}

func TestTrackArticleViewRequiresID(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, err := tr.TrackArticleView(context.Background(), models.Article{})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestRecentlyViewedExpires(t *testing.T) {
	tr, clock, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.TrackArticleView(ctx, article("1"))
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	assert.True(t, tr.IsRecentlyViewed(ctx, "1"))

	clock.Advance(2 * time.Hour)
	assert.False(t, tr.IsRecentlyViewed(ctx, "1"))
	assert.Equal(t, int64(1), tr.GetViewCount(ctx, "1"))
}

func TestLastViewedBoundedAndDeduplicated(t *testing.T) {
	tr, clock, _ := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := tr.TrackArticleView(ctx, article(fmt.Sprint(i)))
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	list := tr.GetLastViewed(ctx)
	require.Len(t, list, 10)
	assert.Equal(t, "14", list[0].ID)
	assert.Equal(t, "5", list[9].ID)

	// re-view an entry already in the list, past the dedup window
	clock.Advance(time.Hour)
	_, err := tr.TrackArticleView(ctx, article("8"))
	require.NoError(t, err)

	list = tr.GetLastViewed(ctx)
	require.Len(t, list, 10)
	assert.Equal(t, "8", list[0].ID)
	assert.Equal(t, "slug-8", list[0].Slug)
	ids := map[string]int{}
	for _, e := range list {
		ids[e.ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "duplicate id %s", id)
	}
	assert.Equal(t, "14", list[1].ID)
}

func TestTrendingFullDecayAfterHorizon(t *testing.T) {
	tr, clock, store := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.TrackArticleView(ctx, article("1"))
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	_, err = tr.TrackArticleView(ctx, article("1"))
	require.NoError(t, err)

	pop := New(store).loadPopularity(ctx)
	assert.Equal(t, 1.0, pop.Trending["1"].Score)
}

func TestTrendingNoDecayAtZeroElapsed(t *testing.T) {
	tr, _, store := newTestTracker(t, WithOptions(Options{DedupWindow: 0}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		counted, err := tr.TrackArticleView(ctx, article("1"))
		require.NoError(t, err)
		require.True(t, counted)
	}

	pop := New(store).loadPopularity(ctx)
	assert.Equal(t, 2.0, pop.Trending["1"].Score)
}

func TestTrendingPartialDecay(t *testing.T) {
	tr, clock, store := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.TrackArticleView(ctx, article("1"))
	require.NoError(t, err)
	clock.Advance(12 * time.Hour)
	_, err = tr.TrackArticleView(ctx, article("1"))
	require.NoError(t, err)

	pop := New(store).loadPopularity(ctx)
	assert.InDelta(t, 1.5, pop.Trending["1"].Score, 1e-9)
}

func TestGetTrendingArticles(t *testing.T) {
	tr, clock, _ := newTestTracker(t)
	ctx := context.Background()
	all := []models.Article{article("a"), article("b"), article("c")}

	_, _ = tr.TrackArticleView(ctx, all[0])
	_, _ = tr.TrackArticleView(ctx, all[1])
	clock.Advance(time.Hour)
	_, _ = tr.TrackArticleView(ctx, all[1])

	got := tr.GetTrendingArticles(ctx, all, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, int64(2), got[0].RecentViews)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, 1.0, got[1].TrendingScore)

	clock.Advance(25 * time.Hour)
	got = tr.GetTrendingArticles(ctx, all, 0)
	require.Len(t, got, 3)
	for _, item := range got {
		assert.Equal(t, int64(0), item.RecentViews)
	}
	assert.Equal(t, "c", got[2].ID)
	assert.Equal(t, 0.0, got[2].TrendingScore)
}

func TestGetPopularArticlesByPeriod(t *testing.T) {
	tr, clock, _ := newTestTracker(t)
	ctx := context.Background()
	all := []models.Article{article("a"), article("b")}

	// Wednesday 2026-10-14
	_, _ = tr.TrackArticleView(ctx, all[1])
	// Thursday, same ISO week and month
	clock.Advance(24 * time.Hour)
	_, _ = tr.TrackArticleView(ctx, all[1])
	_, _ = tr.TrackArticleView(ctx, all[0])

	daily := tr.GetPopularArticles(ctx, all, Daily, 0)
	assert.Equal(t, int64(1), daily[0].PopularityScore)
	assert.Equal(t, int64(1), daily[1].PopularityScore)

	weekly := tr.GetPopularArticles(ctx, all, Weekly, 1)
	require.Len(t, weekly, 1)
	assert.Equal(t, "b", weekly[0].ID)
	assert.Equal(t, int64(2), weekly[0].PopularityScore)
	assert.Equal(t, int64(2), weekly[0].ViewCount)

	// next month: buckets from October no longer count
	clock.now = time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	monthly := tr.GetPopularArticles(ctx, all, Monthly, 0)
	for _, item := range monthly {
		assert.Equal(t, int64(0), item.PopularityScore)
	}
	assert.Equal(t, "a", monthly[0].ID)
	assert.Equal(t, int64(1), monthly[0].ViewCount)
	assert.Equal(t, int64(2), monthly[1].ViewCount)

	_, _ = tr.TrackArticleView(ctx, all[0])
	monthly = tr.GetPopularArticles(ctx, all, Monthly, 0)
	assert.Equal(t, "a", monthly[0].ID)
	assert.Equal(t, int64(1), monthly[0].PopularityScore)
}

func TestViewCountsRoundTrip(t *testing.T) {
	tr, clock, store := newTestTracker(t)
	ctx := context.Background()

	_, _ = tr.TrackArticleView(ctx, article("1"))
	_, _ = tr.TrackArticleView(ctx, article("2"))
	clock.Advance(time.Hour)
	_, _ = tr.TrackArticleView(ctx, article("2"))

	before := tr.loadViewCounts(ctx)

	reloaded := New(store, WithClock(clock))
	after := reloaded.loadViewCounts(ctx)
	require.Len(t, after, len(before))
	for id, rec := range before {
		assert.Equal(t, rec.Count, after[id].Count)
		assert.Equal(t, rec.Sessions, after[id].Sessions)
		assert.True(t, rec.LastViewed.Equal(after[id].LastViewed))
	}
	assert.Equal(t, int64(2), reloaded.GetViewCount(ctx, "2"))
}

func TestCorruptStateDegradesToEmpty(t *testing.T) {
	tr, _, store := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyViewCounts, "{not json"))
	require.NoError(t, store.Set(ctx, KeyLastViewed, "42"))
	require.NoError(t, store.Set(ctx, KeyPopularity, "null"))

	assert.Equal(t, int64(0), tr.GetViewCount(ctx, "1"))
	assert.Empty(t, tr.GetLastViewed(ctx))

	counted, err := tr.TrackArticleView(ctx, article("1"))
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, int64(1), tr.GetViewCount(ctx, "1"))
	assert.Len(t, tr.GetLastViewed(ctx), 1)
}

func TestViewHookOnlyOnCountedViews(t *testing.T) {
	var calls []models.ViewRecord
	hook := func(_ context.Context, _ models.Article, rec models.ViewRecord) {
		calls = append(calls, rec)
	}
	tr, clock, _ := newTestTracker(t, WithViewHook(hook))
	ctx := context.Background()

	_, _ = tr.TrackArticleView(ctx, article("1"))
	_, _ = tr.TrackArticleView(ctx, article("1"))
	clock.Advance(time.Hour)
	_, _ = tr.TrackArticleView(ctx, article("1"))

	require.Len(t, calls, 2)
	assert.Equal(t, int64(2), calls[1].Count)
}

func TestCleanupOldData(t *testing.T) {
	tr, clock, store := newTestTracker(t)
	ctx := context.Background()

	_, _ = tr.TrackArticleView(ctx, article("old"))
	clock.Advance(31 * 24 * time.Hour)
	_, _ = tr.TrackArticleView(ctx, article("fresh"))

	raw, _ := json.Marshal(clock.Now().Add(-29 * 24 * time.Hour))
	require.NoError(t, store.Set(ctx, seenKey("recent"), string(raw)))
	require.NoError(t, store.Set(ctx, seenKey("garbage"), "not-a-time"))

	countsBefore, _, _ := store.Get(ctx, KeyViewCounts)
	listBefore, _, _ := store.Get(ctx, KeyLastViewed)
	popBefore, _, _ := store.Get(ctx, KeyPopularity)

	removed, err := tr.CleanupOldData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	keys, err := store.Keys(ctx, SeenKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{seenKey("fresh"), seenKey("garbage"), seenKey("recent")}, keys)

	countsAfter, _, _ := store.Get(ctx, KeyViewCounts)
	listAfter, _, _ := store.Get(ctx, KeyLastViewed)
	popAfter, _, _ := store.Get(ctx, KeyPopularity)
	assert.Equal(t, countsBefore, countsAfter)
	assert.Equal(t, listBefore, listAfter)
	assert.Equal(t, popBefore, popAfter)
	assert.Equal(t, int64(1), tr.GetViewCount(ctx, "old"))
}

func TestViewHookRunsOutsideLock(t *testing.T) {
	var mu sync.Mutex
	var locked []bool
	hook := func(_ context.Context, _ models.Article, _ models.ViewRecord) {
		ok := mu.TryLock()
		if ok {
			mu.Unlock()
		}
		locked = append(locked, ok)
	}
	tr, _, _ := newTestTracker(t, WithLocker(&mu), WithViewHook(hook))

	counted, err := tr.TrackArticleView(context.Background(), article("1"))
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, []bool{true}, locked)
}

func TestOptionsFromConfigDisableDedup(t *testing.T) {
	c := config.TrackerConfig{DedupWindow: 30 * time.Minute, Timezone: "UTC"}
	assert.Equal(t, 30*time.Minute, OptionsFromConfig(c).DedupWindow)

	c.DisableDedup = true
	tr, _, _ := newTestTracker(t, WithOptions(OptionsFromConfig(c)))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		counted, err := tr.TrackArticleView(ctx, article("1"))
		require.NoError(t, err)
		assert.True(t, counted)
	}
	assert.Equal(t, int64(3), tr.GetViewCount(ctx, "1"))
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{DedupWindow: -time.Second}.normalized()
	assert.Equal(t, time.Duration(0), o.DedupWindow)
	assert.Equal(t, 24*time.Hour, o.TrendingHorizon)
	assert.Equal(t, 10, o.LastViewedLimit)
	assert.Equal(t, time.UTC, o.Location)
}
