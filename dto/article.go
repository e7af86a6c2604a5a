package dto

import (
	"time"

	"anime-news/models"
)

// ArticleDTO is an article rendered in one locale.
// Title and Excerpt fall back to the default locale when lang has no text.
type ArticleDTO struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Lang        string    `json:"lang"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Category    string    `json:"category"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	Date        string    `json:"date"`
	PublishedAt time.Time `json:"published_at"`
	Thumbnail   string    `json:"thumbnail"`
	Author      string    `json:"author"`
	Views       int64     `json:"views"`
	// Path is the front-end URL of the article page.
	Path string `json:"path"`
}

func NewArticleDTO(a models.Article, lang string) ArticleDTO {
	lang = NormalizeLang(lang)
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	cats := a.Categories
	if cats == nil {
		cats = []string{}
	}
	return ArticleDTO{
		ID:          a.ID,
		Slug:        a.Slug,
		Lang:        lang,
		Title:       a.Title.Get(lang),
		Excerpt:     a.Excerpt.Get(lang),
		Category:    a.Category,
		Categories:  cats,
		Tags:        tags,
		Date:        a.Date,
		PublishedAt: a.PublishedAt,
		Thumbnail:   a.Thumbnail,
		Author:      a.Author,
		Views:       a.Views,
		Path:        ArticlePath(a.Category, a.Slug),
	}
}

func NewArticleDTOs(articles []models.Article, lang string) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleDTO(a, lang))
	}
	return out
}

// NormalizeLang maps anything but a supported locale to the default one.
func NormalizeLang(lang string) string {
	switch lang {
	case models.LangID, models.LangEN:
		return lang
	}
	return models.DefaultLang
}

func ArticlePath(category, slug string) string {
	return "/" + category + "/" + slug
}
