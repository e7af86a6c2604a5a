package feeder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-news/config"
	"anime-news/eventbus"
	"anime-news/models"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Otaku News</title>
  <link>https://otaku.example.com</link>
  <item>
    <title>Frieren Season 2 Trailer Revealed</title>
    <link>https://otaku.example.com/news/frieren-s2-trailer</link>
    <pubDate>Tue, 13 Oct 2026 08:00:00 +0000</pubDate>
    <category>Frieren</category>
    <category>Madhouse</category>
    <category>frieren</category>
    <description><![CDATA[<p>The new trailer for <b>Frieren</b> season two shows Fern and Stark.</p><img src="/img/frieren.jpg">]]></description>
  </item>
  <item>
    <title>Chainsaw Man Movie Passes 10 Billion Yen</title>
    <link>https://otaku.example.com/news/csm-box-office</link>
    <pubDate>Mon, 12 Oct 2026 08:00:00 +0000</pubDate>
    <enclosure url="https://cdn.example.com/csm.jpg" type="image/jpeg" length="1"/>
    <description>Box office milestone.</description>
  </item>
  <item>
    <title>No link item</title>
  </item>
</channel>
</rss>`

func TestParseRssFeeds(t *testing.T) {
	items, err := ParseRssFeeds(sampleFeed, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Frieren Season 2 Trailer Revealed", items[0].Title)
	assert.Equal(t, "https://otaku.example.com/news/frieren-s2-trailer", items[0].Link)
	assert.True(t, items[0].PublishedAt.Equal(time.Date(2026, 10, 13, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"Frieren", "Madhouse", "frieren"}, items[0].Categories)
	assert.Equal(t, "https://cdn.example.com/csm.jpg", items[1].Image)

	limited, err := ParseRssFeeds(sampleFeed, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = ParseRssFeeds("not a feed", 0)
	assert.Error(t, err)
}

func TestToArticle(t *testing.T) {
	items, err := ParseRssFeeds(sampleFeed, 0)
	require.NoError(t, err)
	src := config.FeedSource{Name: "Otaku News", Category: "anime", Lang: models.LangEN}

	a := ToArticle(items[0], src)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a.ID, ToArticle(items[0], src).ID)
	assert.True(t, strings.HasPrefix(a.Slug, "frieren-season-2-trailer-revealed-"))
	assert.Equal(t, "Frieren Season 2 Trailer Revealed", a.Title.Get(models.LangEN))
	assert.Equal(t, "anime", a.Category)
	assert.Equal(t, []string{"frieren", "madhouse"}, a.Tags)
	assert.Equal(t, "https://otaku.example.com/img/frieren.jpg", a.Thumbnail)
	assert.Equal(t, "Otaku News", a.Author)
	assert.Equal(t, "13 October 2026", a.Date)

	excerpt := a.Excerpt.Get(models.LangEN)
	assert.Contains(t, excerpt, "trailer")
	assert.NotContains(t, excerpt, "<")

	other := ToArticle(items[1], config.FeedSource{Category: "movie"})
	assert.Equal(t, "https://cdn.example.com/csm.jpg", other.Thumbnail)
	assert.Equal(t, "Chainsaw Man Movie Passes 10 Billion Yen", other.Title.Get(models.DefaultLang))
	assert.NotEqual(t, a.ID, other.ID)
}

func TestExcerptTruncates(t *testing.T) {
	body := "<p>" + strings.Repeat("kata ", 200) + "</p>"
	got := Excerpt(body, "https://example.com/a")
	assert.LessOrEqual(t, utf8.RuneCountInString(got), maxExcerptRunes+1)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "", Excerpt("  ", ""))
}

func TestThumbnail(t *testing.T) {
	body := `<html><head><meta property="og:image" content="https://cdn.example.com/og.png"></head><body><img src="x.png"></body></html>`
	assert.Equal(t, "https://cdn.example.com/og.png", Thumbnail(body, "https://example.com/post"))
	assert.Equal(t, "https://example.com/a/x.png", Thumbnail(`<img src="x.png">`, "https://example.com/a/post"))
	assert.Equal(t, "", Thumbnail("<p>no image</p>", "https://example.com"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "one-piece-chapter-1130", Slugify("One Piece: Chapter 1130!"))
	assert.Equal(t, "spy-family", Slugify("  Spy × Family  "))
	assert.Equal(t, "kimetsu-no-yaiba", Slugify("Kimetsu_no--Yaiba"))
	assert.Equal(t, "", Slugify("!!!"))
}

type fakeArticles struct {
	existing map[string]bool
	saved    []models.Article
	failOn   string
}

func (f *fakeArticles) IsExistByLink(_ context.Context, link string) (bool, error) {
	return f.existing[link], nil
}

func (f *fakeArticles) UpsertBySlug(_ context.Context, a *models.Article) error {
	if a.Link == f.failOn {
		return errors.New("write failed")
	}
	f.saved = append(f.saved, *a)
	return nil
}

type fakeFeeds struct {
	upserted []string
	fetched  map[string]int
}

func (f *fakeFeeds) UpsertFeed(_ context.Context, feed *models.Feed) error {
	f.upserted = append(f.upserted, feed.URL)
	return nil
}

func (f *fakeFeeds) MarkFetched(_ context.Context, url string, _ time.Time, inserted int) error {
	f.fetched[url] = inserted
	return nil
}

func TestIngesterRun(t *testing.T) {
	articles := &fakeArticles{existing: map[string]bool{
		"https://otaku.example.com/news/csm-box-office": true,
	}}
	feeds := &fakeFeeds{fetched: map[string]int{}}
	bus := eventbus.NewMemoryBus(8, eventbus.WithRecording())

	fetch := func(_ context.Context, url string, limit int) ([]RssFeedItem, error) {
		if url == "https://broken.example.com/rss" {
			return nil, errors.New("timeout")
		}
		return ParseRssFeeds(sampleFeed, limit)
	}
	ing := NewIngester(articles,
		WithFeedStore(feeds),
		WithFetcher(fetch),
		WithPublisher(bus, "events"),
	)

	n := ing.Run(context.Background(), []config.FeedSource{
		{Name: "Otaku", URL: "https://otaku.example.com/rss", Category: "anime", Lang: "en"},
		{Name: "Broken", URL: "https://broken.example.com/rss", Category: "game"},
	})

	assert.Equal(t, 1, n)
	require.Len(t, articles.saved, 1)
	assert.Equal(t, "https://otaku.example.com/news/frieren-s2-trailer", articles.saved[0].Link)
	assert.Equal(t, []string{"https://otaku.example.com/rss", "https://broken.example.com/rss"}, feeds.upserted)
	assert.Equal(t, map[string]int{"https://otaku.example.com/rss": 1}, feeds.fetched)

	published := bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "events", published[0].Topic)
	assert.Equal(t, EventTypeArticleIngested, published[0].Event.Type)
}

func TestIngesterSkipsFailedWrites(t *testing.T) {
	articles := &fakeArticles{failOn: "https://otaku.example.com/news/frieren-s2-trailer"}
	ing := NewIngester(articles, WithFetcher(func(_ context.Context, _ string, limit int) ([]RssFeedItem, error) {
		return ParseRssFeeds(sampleFeed, limit)
	}))

	n := ing.Run(context.Background(), []config.FeedSource{{Name: "Otaku", URL: "u", Category: "anime"}})
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, ing.Run(context.Background(), nil))
}
