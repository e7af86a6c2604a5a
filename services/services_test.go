package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-news/catalog"
	"anime-news/config"
	"anime-news/eventbus"
	"anime-news/storage"
	"anime-news/tracker"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store    *storage.MemoryStore
	clock    *fakeClock
	bus      *eventbus.MemoryBus
	trackers *VisitorTrackers
	articles *ArticleService
	tracking *TrackingService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	src, err := catalog.LoadStatic("")
	require.NoError(t, err)

	f := fixture{
		store: storage.NewMemoryStore(),
		clock: &fakeClock{now: time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)},
		bus:   eventbus.NewMemoryBus(64, eventbus.WithRecording()),
	}
	f.trackers = NewVisitorTrackers(f.store, tracker.DefaultOptions(),
		WithTrackerClock(f.clock),
		WithEventPublisher(f.bus, "views"))
	f.articles = NewArticleService(src)
	f.tracking = NewTrackingService(src, f.trackers)
	return f
}

func TestArticleServiceList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.articles.List(ctx, ListArticlesInput{Page: 1, PageSize: 3, Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 3, page.PageSize)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Frieren Season 2 Officially Airs January 2026", page.Data[0].Title)

	page, err = f.articles.List(ctx, ListArticlesInput{Category: "Anime"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, catalog.DefaultPageSize, page.PageSize)

	_, err = f.articles.List(ctx, ListArticlesInput{Category: "sports"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestArticleServiceGetBySlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.articles.GetBySlug(ctx, "one-piece-chapter-1130-spoiler", "id")
	require.NoError(t, err)
	assert.Equal(t, "/komik/one-piece-chapter-1130-spoiler", a.Path)

	_, err = f.articles.GetBySlug(ctx, "missing", "id")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestArticleServiceCategories(t *testing.T) {
	f := newFixture(t)
	cats, err := f.articles.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 7)
	assert.Equal(t, "anime", cats[0].Name)
	assert.Equal(t, 4, cats[0].Count)
	assert.Equal(t, "/anime", cats[0].Path)
}

func TestTrackViewIsPerVisitor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slug := "frieren-season-2-tayang-januari"

	res, err := f.tracking.TrackView(ctx, "alice", slug)
	require.NoError(t, err)
	assert.True(t, res.Counted)
	assert.Equal(t, int64(1), res.ViewCount)

	res, err = f.tracking.TrackView(ctx, "alice", slug)
	require.NoError(t, err)
	assert.False(t, res.Counted)
	assert.Equal(t, int64(1), res.ViewCount)

	res, err = f.tracking.TrackView(ctx, "bob", slug)
	require.NoError(t, err)
	assert.True(t, res.Counted)

	stats, err := f.tracking.Stats(ctx, "carol", slug)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.ViewCount)
	assert.False(t, stats.RecentlyViewed)

	stats, err = f.tracking.Stats(ctx, "alice", slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ViewCount)
	assert.True(t, stats.RecentlyViewed)

	published := f.bus.Published()
	require.Len(t, published, 2)
	payload, err := eventbus.DecodeJSON[eventbus.ArticleViewed](published[0].Event)
	require.NoError(t, err)
	assert.Equal(t, "alice", payload.VisitorID)
	assert.Equal(t, "1", payload.ArticleID)
	assert.Equal(t, "views", published[0].Topic)
}

func TestTrackViewErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tracking.TrackView(ctx, "", "frieren-season-2-tayang-januari")
	assert.ErrorIs(t, err, ErrMissingVisitor)

	_, err = f.tracking.TrackView(ctx, "alice", "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = f.tracking.Popular(ctx, "alice", "yearly", 5, "en")
	assert.Error(t, err)
}

func TestRankings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, slug := range []string{"ulasan-chainsaw-man-reze-arc", "one-piece-chapter-1130-spoiler"} {
		_, err := f.tracking.TrackView(ctx, "alice", slug)
		require.NoError(t, err)
	}
	f.clock.Advance(time.Hour)
	_, err := f.tracking.TrackView(ctx, "alice", "one-piece-chapter-1130-spoiler")
	require.NoError(t, err)

	trending, err := f.tracking.Trending(ctx, "alice", 2, "en")
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, "3", trending[0].ID)
	assert.Equal(t, int64(2), trending[0].RecentViews)
	assert.Equal(t, "2", trending[1].ID)

	popular, err := f.tracking.Popular(ctx, "alice", "", 0, "en")
	require.NoError(t, err)
	assert.Len(t, popular, DefaultRankingLimit)
	assert.Equal(t, "3", popular[0].ID)
	assert.Equal(t, int64(2), popular[0].PopularityScore)

	last, err := f.tracking.LastViewed(ctx, "alice", "en")
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "3", last[0].ID)
	assert.Equal(t, "/komik/one-piece-chapter-1130-spoiler", last[0].Path)

	related, err := f.tracking.Related(ctx, "alice", "frieren-season-2-tayang-januari", 3, "en")
	require.NoError(t, err)
	require.Len(t, related, 3)
	for _, r := range related {
		assert.NotEqual(t, "1", r.ID)
	}
}

func TestCleanupAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tracking.TrackView(ctx, "alice", "frieren-season-2-tayang-januari")
	require.NoError(t, err)
	_, err = f.tracking.TrackView(ctx, "bob", "ulasan-chainsaw-man-reze-arc")
	require.NoError(t, err)

	f.clock.Advance(31 * 24 * time.Hour)
	_, err = f.tracking.TrackView(ctx, "bob", "one-piece-chapter-1130-spoiler")
	require.NoError(t, err)

	visitors, removed, err := f.trackers.CleanupAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, visitors)
	assert.Equal(t, 2, removed)

	stats, err := f.tracking.Stats(ctx, "alice", "frieren-season-2-tayang-januari")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ViewCount)
}

type fakeCounter struct {
	ids []string
	err error
}

func (c *fakeCounter) IncrementViews(_ context.Context, id string) error {
	c.ids = append(c.ids, id)
	return c.err
}

func TestViewAggregatorHandle(t *testing.T) {
	counter := &fakeCounter{}
	agg := NewViewAggregator(counter)
	ctx := context.Background()

	require.NoError(t, agg.Handle(ctx, eventbus.ArticleViewed{ArticleID: "7"}, eventbus.Event{}))
	require.NoError(t, agg.Handle(ctx, eventbus.ArticleViewed{}, eventbus.Event{ID: "x"}))
	assert.Equal(t, []string{"7"}, counter.ids)

	counter.err = errors.New("mongo down")
	assert.Error(t, agg.Handle(ctx, eventbus.ArticleViewed{ArticleID: "8"}, eventbus.Event{}))
}

func TestOpenStoreAndCatalog(t *testing.T) {
	ctx := context.Background()

	s, err := OpenStore(ctx, config.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s)

	s, err = OpenStore(ctx, config.StorageConfig{Backend: "sqlite", SQLitePath: t.TempDir() + "/kv.db"})
	require.NoError(t, err)
	require.NoError(t, storage.Close(s))

	_, err = OpenStore(ctx, config.StorageConfig{Backend: "etcd"})
	assert.Error(t, err)

	src, err := OpenCatalog(config.CatalogConfig{Backend: "static"})
	require.NoError(t, err)
	assert.IsType(t, &catalog.Static{}, src)

	_, err = OpenCatalog(config.CatalogConfig{Backend: "csv"})
	assert.Error(t, err)
}

func TestNewAppWithDefaults(t *testing.T) {
	cfg := config.Default()
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Bus)
	assert.NotNil(t, app.Articles)
	assert.NotNil(t, app.Tracking)
	app.StartBackground(context.Background())
}
