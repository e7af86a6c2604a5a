package services

import (
	"context"

	"anime-news/config"
	"anime-news/eventbus"
)

// ViewCounter bumps the provider-side view baseline of an article.
type ViewCounter interface {
	IncrementViews(ctx context.Context, articleID string) error
}

// ViewAggregator folds article.viewed events into the catalog's views field,
// which feeds the popularity part of related-article scoring.
type ViewAggregator struct {
	counter ViewCounter
}

func NewViewAggregator(counter ViewCounter) *ViewAggregator {
	return &ViewAggregator{counter: counter}
}

func (a *ViewAggregator) Handle(ctx context.Context, evt eventbus.ArticleViewed, meta eventbus.Event) error {
	if evt.ArticleID == "" {
		config.Logger.Warnf("services: view event %s without article id, skipping", meta.ID)
		return nil
	}
	return a.counter.IncrementViews(ctx, evt.ArticleID)
}

// Run consumes topic until ctx ends.
func (a *ViewAggregator) Run(ctx context.Context, bus eventbus.EventBus, groupID string, topic eventbus.Topic) error {
	return eventbus.SubscribeJSON(ctx, bus, groupID, topic, eventbus.EventTypeArticleViewed, a.Handle)
}
