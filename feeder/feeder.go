package feeder

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type RssFeedItem struct {
	Title       string
	Link        string
	Description string
	Content     string
	Author      string
	Image       string
	Categories  []string
	PublishedAt time.Time
}

// FetchRssFeeds fetches an RSS/Atom feed from the given URL.
// If limit is greater than 0, it returns only the first limit items.
func FetchRssFeeds(ctx context.Context, client *http.Client, rssURL string, limit int) ([]RssFeedItem, error) {
	fp := gofeed.NewParser()
	if client != nil {
		fp.Client = client
	}
	feed, err := fp.ParseURLWithContext(rssURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("feeder: fetch %s: %w", rssURL, err)
	}
	return itemsOf(feed, limit), nil
}

// ParseRssFeeds parses an already downloaded feed document.
func ParseRssFeeds(doc string, limit int) ([]RssFeedItem, error) {
	feed, err := gofeed.NewParser().ParseString(doc)
	if err != nil {
		return nil, fmt.Errorf("feeder: parse feed: %w", err)
	}
	return itemsOf(feed, limit), nil
}

func itemsOf(feed *gofeed.Feed, limit int) []RssFeedItem {
	var items []RssFeedItem
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		out := RssFeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: item.Description,
			Content:     item.Content,
			Categories:  item.Categories,
			PublishedAt: published,
		}
		if item.Author != nil {
			out.Author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			out.Author = item.Authors[0].Name
		}
		if item.Image != nil {
			out.Image = item.Image.URL
		}
		if out.Image == "" {
			for _, enc := range item.Enclosures {
				if enc != nil && strings.HasPrefix(enc.Type, "image/") {
					out.Image = enc.URL
					break
				}
			}
		}
		items = append(items, out)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
