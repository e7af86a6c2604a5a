package models

import "time"

// Supported locales.
const (
	LangID = "id"
	LangEN = "en"
)

// DefaultLang is used when a requested locale has no text.
const DefaultLang = LangID

// LocalizedText holds per-locale strings keyed by language code.
type LocalizedText map[string]string

// Get returns the text for lang, falling back to the default locale and then to
// any non-empty value.
func (t LocalizedText) Get(lang string) string {
	if v := t[lang]; v != "" {
		return v
	}
	if v := t[DefaultLang]; v != "" {
		return v
	}
	for _, v := range t {
		if v != "" {
			return v
		}
	}
	return ""
}

// Article is a single news item supplied by the catalog.
// Collection: articles
type Article struct {
	ID          string        `bson:"_id" json:"id" yaml:"id"`
	Slug        string        `bson:"slug" json:"slug" yaml:"slug"`
	Title       LocalizedText `bson:"title" json:"title" yaml:"title"`
	Excerpt     LocalizedText `bson:"excerpt" json:"excerpt" yaml:"excerpt"`
	Category    string        `bson:"category" json:"category" yaml:"category"`
	Categories  []string      `bson:"categories,omitempty" json:"categories,omitempty" yaml:"categories"`
	Tags        []string      `bson:"tags" json:"tags" yaml:"tags"`
	Date        string        `bson:"date" json:"date" yaml:"date"`
	PublishedAt time.Time     `bson:"published_at" json:"published_at" yaml:"published_at"`
	Thumbnail   string        `bson:"thumbnail" json:"thumbnail" yaml:"thumbnail"`
	Author      string        `bson:"author" json:"author" yaml:"author"`
	Link        string        `bson:"link,omitempty" json:"link,omitempty" yaml:"link"`
	// Views is the provider-side popularity baseline, independent of visitor tracking.
	Views     int64     `bson:"views" json:"views" yaml:"views"`
	CreatedAt time.Time `bson:"created_at" json:"created_at" yaml:"-"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at" yaml:"-"`
}

// CategorySet returns the primary category together with the extra categories.
func (a Article) CategorySet() []string {
	out := make([]string, 0, len(a.Categories)+1)
	if a.Category != "" {
		out = append(out, a.Category)
	}
	return append(out, a.Categories...)
}
