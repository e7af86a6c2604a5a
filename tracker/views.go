package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"anime-news/models"
)

// TrackArticleView counts a view of article unless the same article was counted
// within the dedup window. It reports whether the view was counted.
func (t *Tracker) TrackArticleView(ctx context.Context, article models.Article) (bool, error) {
	if article.ID == "" {
		return false, ErrMissingID
	}

	t.lock.Lock()
	rec, counted, err := t.recordView(ctx, article)
	t.lock.Unlock()
	if err != nil || !counted {
		return false, err
	}

	// hook 은 lock 밖에서 호출
	if t.onView != nil {
		t.onView(ctx, article, rec)
	}
	return true, nil
}

// recordView must be called with lock held.
func (t *Tracker) recordView(ctx context.Context, article models.Article) (models.ViewRecord, bool, error) {
	var none models.ViewRecord
	now := t.clock.Now()
	if last, ok := t.lastSeen(ctx, article.ID); ok && now.Sub(last) < t.opts.DedupWindow {
		return none, false, nil
	}

	// 1) view record
	counts := t.loadViewCounts(ctx)
	rec := counts[article.ID]
	rec.Count++
	rec.Sessions++
	rec.LastViewed = now
	counts[article.ID] = rec
	if err := save(ctx, t.store, KeyViewCounts, counts); err != nil {
		return none, false, err
	}

	// 2) last viewed list
	entry := models.LastViewedEntry{
		ID:        article.ID,
		Title:     article.Title,
		Slug:      article.Slug,
		Category:  article.Category,
		ViewedAt:  now,
		Thumbnail: article.Thumbnail,
	}
	list := pushLastViewed(t.loadLastViewed(ctx), entry, t.opts.LastViewedLimit)
	if err := save(ctx, t.store, KeyLastViewed, list); err != nil {
		return none, false, err
	}

	// 3) period counters, 4) trending
	pop := t.loadPopularity(ctx)
	for _, tf := range []Timeframe{Daily, Weekly, Monthly} {
		bump(bucketFor(pop, tf), article.ID, PeriodKey(tf, now, t.opts.Location))
	}
	prev := pop.Trending[article.ID]
	elapsed := 0.0
	if !prev.UpdatedAt.IsZero() {
		elapsed = now.Sub(prev.UpdatedAt).Hours()
	}
	pop.Trending[article.ID] = models.TrendingScore{
		Score:     Decay(prev.Score, elapsed, t.opts.TrendingHorizon.Hours()) + 1,
		UpdatedAt: now,
	}
	if err := save(ctx, t.store, KeyPopularity, pop); err != nil {
		return none, false, err
	}

	seen, err := json.Marshal(now)
	if err != nil {
		return none, false, fmt.Errorf("tracker: encode seen time: %w", err)
	}
	if err := t.store.Set(ctx, seenKey(article.ID), string(seen)); err != nil {
		return none, false, fmt.Errorf("tracker: save %s: %w", seenKey(article.ID), err)
	}

	return rec, true, nil
}

// pushLastViewed moves entry to the front, drops earlier entries with the same
// id and keeps at most limit entries.
func pushLastViewed(list []models.LastViewedEntry, entry models.LastViewedEntry, limit int) []models.LastViewedEntry {
	out := make([]models.LastViewedEntry, 0, limit)
	out = append(out, entry)
	for _, e := range list {
		if len(out) >= limit {
			break
		}
		if e.ID == entry.ID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GetViewCount returns how many views of id have been counted.
func (t *Tracker) GetViewCount(ctx context.Context, id string) int64 {
	return t.loadViewCounts(ctx)[id].Count
}

// GetViewRecord returns the full record for id; the zero record when never viewed.
func (t *Tracker) GetViewRecord(ctx context.Context, id string) models.ViewRecord {
	return t.loadViewCounts(ctx)[id]
}

// IsRecentlyViewed reports whether id was last viewed within the recent window.
func (t *Tracker) IsRecentlyViewed(ctx context.Context, id string) bool {
	rec := t.loadViewCounts(ctx)[id]
	return t.recent(rec)
}

func (t *Tracker) recent(rec models.ViewRecord) bool {
	if rec.LastViewed.IsZero() {
		return false
	}
	return t.clock.Now().Sub(rec.LastViewed) < t.opts.RecentWindow
}

// GetLastViewed returns the most-recent-first list of opened articles.
func (t *Tracker) GetLastViewed(ctx context.Context) []models.LastViewedEntry {
	return t.loadLastViewed(ctx)
}
