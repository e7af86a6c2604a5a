package feeder

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"anime-news/config"
	"anime-news/eventbus"
	"anime-news/models"
)

const EventTypeArticleIngested = "article.ingested"

// ArticleStore is the part of the article repository the ingester writes to.
type ArticleStore interface {
	IsExistByLink(ctx context.Context, link string) (bool, error)
	UpsertBySlug(ctx context.Context, a *models.Article) error
}

// FeedStore records feed metadata. Optional.
type FeedStore interface {
	UpsertFeed(ctx context.Context, f *models.Feed) error
	MarkFetched(ctx context.Context, url string, at time.Time, inserted int) error
}

// FetchFunc downloads and parses one feed.
type FetchFunc func(ctx context.Context, url string, limit int) ([]RssFeedItem, error)

// Ingester collects new feed items into the article catalog.
type Ingester struct {
	articles  ArticleStore
	feeds     FeedStore
	publisher eventbus.Publisher
	topic     string
	fetch     FetchFunc
	batchSize int
	now       func() time.Time
}

type IngesterOption func(*Ingester)

func WithFeedStore(f FeedStore) IngesterOption { return func(i *Ingester) { i.feeds = f } }

func WithPublisher(p eventbus.Publisher, topic string) IngesterOption {
	return func(i *Ingester) { i.publisher, i.topic = p, topic }
}

func WithFetcher(f FetchFunc) IngesterOption { return func(i *Ingester) { i.fetch = f } }

func WithBatchSize(n int) IngesterOption { return func(i *Ingester) { i.batchSize = n } }

func NewIngester(articles ArticleStore, opts ...IngesterOption) *Ingester {
	client := &http.Client{Timeout: 20 * time.Second}
	i := &Ingester{
		articles:  articles,
		publisher: eventbus.NopPublisher{},
		topic:     eventbus.TopicArticleEvents.Base(),
		fetch: func(ctx context.Context, url string, limit int) ([]RssFeedItem, error) {
			return FetchRssFeeds(ctx, client, url, limit)
		},
		batchSize: 20,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run ingests every source and returns how many articles were inserted.
// A failing source is logged and skipped.
func (i *Ingester) Run(ctx context.Context, sources []config.FeedSource) int {
	if len(sources) == 0 {
		config.Logger.Warn("feeder: no feeds configured (key: feeds)")
		return 0
	}
	total := 0
	for _, src := range sources {
		n, err := i.collect(ctx, src)
		if err != nil {
			config.Logger.Errorf("feeder: collect %s: %v", src.Name, err)
			continue
		}
		total += n
	}
	return total
}

func (i *Ingester) collect(ctx context.Context, src config.FeedSource) (int, error) {
	if i.feeds != nil {
		f := &models.Feed{Name: src.Name, URL: src.URL, Category: src.Category, Lang: src.Lang}
		if err := i.feeds.UpsertFeed(ctx, f); err != nil {
			config.Logger.Errorf("feeder: upsert feed %s: %v", src.Name, err)
		}
	}

	items, err := i.fetch(ctx, src.URL, i.batchSize)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, item := range items {
		exists, err := i.articles.IsExistByLink(ctx, item.Link)
		if err != nil {
			config.Logger.Errorf("feeder: check article existence (link=%s): %v", item.Link, err)
			continue
		}
		if exists {
			continue
		}

		a := ToArticle(item, src)
		if err := i.articles.UpsertBySlug(ctx, &a); err != nil {
			config.Logger.Errorf("feeder: save article (feed=%s, title=%s): %v", src.Name, item.Title, err)
			continue
		}
		inserted++
		i.publishIngested(ctx, a)
	}

	if i.feeds != nil {
		if err := i.feeds.MarkFetched(ctx, src.URL, i.now(), inserted); err != nil {
			config.Logger.Errorf("feeder: mark fetched %s: %v", src.Name, err)
		}
	}
	config.Logger.Infof("feeder: %s: %d new of %d items", src.Name, inserted, len(items))
	return inserted, nil
}

func (i *Ingester) publishIngested(ctx context.Context, a models.Article) {
	evt, err := eventbus.NewJSONEvent(EventTypeArticleIngested, map[string]string{
		"article_id": a.ID,
		"slug":       a.Slug,
		"category":   a.Category,
	}, i.now())
	if err != nil {
		config.Logger.Errorf("feeder: build ingested event: %v", err)
		return
	}
	if err := i.publisher.Publish(ctx, i.topic, evt); err != nil {
		config.Logger.Errorf("feeder: publish ingested event for %s: %v", a.Slug, err)
	}
}

// ToArticle maps a feed item to a catalog article of src's category.
// The id is derived from the link so re-ingesting yields the same id.
func ToArticle(item RssFeedItem, src config.FeedSource) models.Article {
	lang := src.Lang
	if lang == "" {
		lang = models.DefaultLang
	}
	body := item.Content
	if body == "" {
		body = item.Description
	}

	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(item.Link)).String()
	slug := Slugify(item.Title)
	if slug == "" {
		slug = id
	} else {
		// link hash suffix keeps slugs unique across feeds
		slug += "-" + id[:8]
	}

	thumb := resolve(item.Image, item.Link)
	if thumb == "" {
		thumb = Thumbnail(body, item.Link)
	}

	a := models.Article{
		ID:          id,
		Slug:        slug,
		Title:       models.LocalizedText{lang: item.Title},
		Excerpt:     models.LocalizedText{lang: Excerpt(body, item.Link)},
		Category:    src.Category,
		Tags:        normalizeTags(item.Categories),
		PublishedAt: item.PublishedAt,
		Thumbnail:   thumb,
		Author:      item.Author,
		Link:        item.Link,
	}
	if a.Author == "" {
		a.Author = src.Name
	}
	if !a.PublishedAt.IsZero() {
		a.Date = a.PublishedAt.Format("2 January 2006")
	}
	return a
}

func normalizeTags(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	tags := make([]string, 0, len(categories))
	for _, c := range categories {
		t := Slugify(c)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}
