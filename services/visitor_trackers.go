package services

import (
	"context"
	"hash/fnv"
	"sync"

	"anime-news/config"
	"anime-news/eventbus"
	"anime-news/models"
	"anime-news/storage"
	"anime-news/tracker"
)

const lockStripes = 64

// VisitorTrackers hands out a tracker per visitor over one shared store.
// Read-modify-write cycles of the same visitor are serialized by a striped lock.
type VisitorTrackers struct {
	store     storage.Store
	opts      tracker.Options
	clock     tracker.Clock
	publisher eventbus.Publisher
	topic     string
	locks     [lockStripes]sync.Mutex
}

type TrackersOption func(*VisitorTrackers)

func WithTrackerClock(c tracker.Clock) TrackersOption {
	return func(v *VisitorTrackers) { v.clock = c }
}

func WithEventPublisher(p eventbus.Publisher, topic string) TrackersOption {
	return func(v *VisitorTrackers) { v.publisher, v.topic = p, topic }
}

func NewVisitorTrackers(store storage.Store, opts tracker.Options, options ...TrackersOption) *VisitorTrackers {
	v := &VisitorTrackers{
		store:     store,
		opts:      opts,
		clock:     tracker.RealClock{},
		publisher: eventbus.NopPublisher{},
		topic:     eventbus.TopicArticleEvents.Base(),
	}
	for _, o := range options {
		o(v)
	}
	return v
}

// For returns the tracker scoped to visitorID.
func (v *VisitorTrackers) For(visitorID string) *tracker.Tracker {
	return tracker.New(
		storage.NewNamespaced(v.store, storage.VisitorPrefix(visitorID)),
		tracker.WithClock(v.clock),
		tracker.WithOptions(v.opts),
		tracker.WithLocker(v.lockFor(visitorID)),
		tracker.WithViewHook(v.viewHook(visitorID)),
	)
}

func (v *VisitorTrackers) lockFor(visitorID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(visitorID))
	return &v.locks[h.Sum32()%lockStripes]
}

// viewHook publishes article.viewed. Publishing is best-effort.
func (v *VisitorTrackers) viewHook(visitorID string) tracker.ViewHook {
	return func(ctx context.Context, a models.Article, rec models.ViewRecord) {
		evt, err := eventbus.NewJSONEvent(eventbus.EventTypeArticleViewed, eventbus.ArticleViewed{
			ArticleID: a.ID,
			Slug:      a.Slug,
			Category:  a.Category,
			VisitorID: visitorID,
			ViewCount: rec.Count,
		}, rec.LastViewed)
		if err != nil {
			config.Logger.Errorf("services: build view event: %v", err)
			return
		}
		if err := v.publisher.Publish(ctx, v.topic, evt); err != nil {
			config.WarnWithFields("failed to publish view event", config.Fields{
				"visitor_id": visitorID,
				"article_id": a.ID,
				"error":      err.Error(),
			})
		}
	}
}

// CleanupAll runs CleanupOldData for every visitor in the store.
// A failing visitor is logged and skipped.
func (v *VisitorTrackers) CleanupAll(ctx context.Context) (visitors, removed int, err error) {
	ids, err := storage.VisitorIDs(ctx, v.store)
	if err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return visitors, removed, ctx.Err()
		}
		n, cerr := v.For(id).CleanupOldData(ctx)
		if cerr != nil {
			config.Logger.Errorf("services: cleanup visitor %s: %v", id, cerr)
			continue
		}
		visitors++
		removed += n
	}
	return visitors, removed, nil
}
