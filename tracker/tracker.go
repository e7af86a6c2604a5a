// Package tracker records article views per visitor and derives trending,
// popular and related rankings from the persisted counters.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"anime-news/config"
	"anime-news/models"
	"anime-news/storage"
)

// Storage keys. Every value is JSON.
const (
	KeyViewCounts = "article_view_counts"
	KeyLastViewed = "last_viewed_articles"
	KeyPopularity = "article_popularity"
	SeenKeyPrefix = "article_seen:"
)

var ErrMissingID = errors.New("tracker: article id is required")

// Clock is injectable for tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// ViewHook is called after a view has been counted and persisted.
type ViewHook func(ctx context.Context, article models.Article, record models.ViewRecord)

// Options tunes the time windows of the tracker.
// A zero DedupWindow disables deduplication; every other zero field takes its default.
type Options struct {
	DedupWindow     time.Duration
	TrendingHorizon time.Duration
	RecentWindow    time.Duration
	SeenRetention   time.Duration
	LastViewedLimit int
	// Location is the calendar used for daily/weekly/monthly period keys.
	Location *time.Location
}

func DefaultOptions() Options {
	return Options{
		DedupWindow:     30 * time.Minute,
		TrendingHorizon: 24 * time.Hour,
		RecentWindow:    24 * time.Hour,
		SeenRetention:   30 * 24 * time.Hour,
		LastViewedLimit: 10,
		Location:        time.UTC,
	}
}

// OptionsFromConfig maps the tracker section of the app config.
func OptionsFromConfig(c config.TrackerConfig) Options {
	o := Options{
		DedupWindow:     c.DedupWindow,
		TrendingHorizon: c.TrendingHorizon,
		RecentWindow:    c.RecentWindow,
		SeenRetention:   c.SeenRetention,
		LastViewedLimit: c.LastViewedLimit,
	}
	if c.DisableDedup {
		o.DedupWindow = 0
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			config.Logger.Warnf("tracker: unknown timezone %q, using UTC: %v", c.Timezone, err)
		} else {
			o.Location = loc
		}
	}
	return o
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.DedupWindow < 0 {
		o.DedupWindow = 0
	}
	if o.TrendingHorizon <= 0 {
		o.TrendingHorizon = d.TrendingHorizon
	}
	if o.RecentWindow <= 0 {
		o.RecentWindow = d.RecentWindow
	}
	if o.SeenRetention <= 0 {
		o.SeenRetention = d.SeenRetention
	}
	if o.LastViewedLimit <= 0 {
		o.LastViewedLimit = d.LastViewedLimit
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	return o
}

type Option func(*Tracker)

func WithClock(c Clock) Option { return func(t *Tracker) { t.clock = c } }

func WithOptions(o Options) Option { return func(t *Tracker) { t.opts = o.normalized() } }

// WithLocker serializes the read-modify-write cycles of TrackArticleView and CleanupOldData.
func WithLocker(l sync.Locker) Option { return func(t *Tracker) { t.lock = l } }

func WithViewHook(h ViewHook) Option { return func(t *Tracker) { t.onView = h } }

// Tracker is the content tracker of one visitor. The store is expected to be
// scoped to that visitor already (see storage.NewNamespaced).
type Tracker struct {
	store  storage.Store
	clock  Clock
	opts   Options
	lock   sync.Locker
	onView ViewHook
}

func New(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		clock: RealClock{},
		opts:  DefaultOptions(),
		lock:  &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Options() Options { return t.opts }

// load decodes key into a fresh value from empty. Read failures and corrupt
// JSON degrade to the empty value.
func load[T any](ctx context.Context, store storage.Store, key string, empty func() T) T {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		config.Logger.Warnf("tracker: read %s: %v", key, err)
		return empty()
	}
	if !ok || raw == "" {
		return empty()
	}
	v := empty()
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		config.Logger.Warnf("tracker: corrupt %s, starting empty: %v", key, err)
		return empty()
	}
	return v
}

func save(ctx context.Context, store storage.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("tracker: encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("tracker: save %s: %w", key, err)
	}
	return nil
}

func (t *Tracker) loadViewCounts(ctx context.Context) map[string]models.ViewRecord {
	m := load(ctx, t.store, KeyViewCounts, func() map[string]models.ViewRecord {
		return map[string]models.ViewRecord{}
	})
	if m == nil {
		m = map[string]models.ViewRecord{}
	}
	return m
}

func (t *Tracker) loadLastViewed(ctx context.Context) []models.LastViewedEntry {
	list := load(ctx, t.store, KeyLastViewed, func() []models.LastViewedEntry {
		return []models.LastViewedEntry{}
	})
	if list == nil {
		list = []models.LastViewedEntry{}
	}
	return list
}

func (t *Tracker) loadPopularity(ctx context.Context) models.PopularityData {
	p := load(ctx, t.store, KeyPopularity, models.NewPopularityData)
	if p.Daily == nil {
		p.Daily = map[string]models.PeriodCount{}
	}
	if p.Weekly == nil {
		p.Weekly = map[string]models.PeriodCount{}
	}
	if p.Monthly == nil {
		p.Monthly = map[string]models.PeriodCount{}
	}
	if p.Trending == nil {
		p.Trending = map[string]models.TrendingScore{}
	}
	return p
}

func seenKey(id string) string { return SeenKeyPrefix + id }

// lastSeen returns the last counted view time of id.
func (t *Tracker) lastSeen(ctx context.Context, id string) (time.Time, bool) {
	key := seenKey(id)
	raw, ok, err := t.store.Get(ctx, key)
	if err != nil {
		config.Logger.Warnf("tracker: read %s: %v", key, err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	var ts time.Time
	if err := json.Unmarshal([]byte(raw), &ts); err != nil {
		config.Logger.Warnf("tracker: corrupt %s: %v", key, err)
		return time.Time{}, false
	}
	return ts, true
}
