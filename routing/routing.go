// Package routing maps the portal's front-end URLs to page identities.
package routing

import (
	"net/url"
	"strings"
)

// Page identifies which page the front-end mounts for a URL.
type Page string

const (
	PageHome     Page = "home"
	PageStatic   Page = "static"
	PageTag      Page = "tag"
	PageCategory Page = "category"
	PageArticle  Page = "article"
	PageNotFound Page = "not-found"
)

// DefaultPage is the category page number when ?page is absent. It stays a string.
const DefaultPage = "1"

var StaticPages = []string{
	"about", "contact", "privacy", "terms", "disclaimer", "help", "report-bug",
	"feature-request", "login", "register", "notifications", "profile", "settings", "faq",
}

var Categories = []string{"anime", "komik", "movie", "game", "ulasan", "berita", "rekomendasi"}

// Route is a resolved URL. Only the fields that belong to Page are set.
type Route struct {
	Page     Page              `json:"page"`
	Name     string            `json:"name"`
	Static   string            `json:"static,omitempty"`
	Tag      string            `json:"tag,omitempty"`
	Category string            `json:"category,omitempty"`
	Slug     string            `json:"slug,omitempty"`
	PageNum  string            `json:"page_num,omitempty"`
	Path     string            `json:"path"`
	Query    map[string]string `json:"query,omitempty"`
}

// Request is what a rule sees: decoded path segments and the query.
type Request struct {
	Path     string
	Segments []string
	Query    url.Values
}

// Rule matches a request and builds its route. Rules are tried in order.
type Rule struct {
	Name  string
	Match func(Request) bool
	Build func(Request) Route
}

// Table is an ordered rule list. The zero Table resolves everything to not-found.
type Table []Rule

func IsStaticPage(s string) bool { return contains(StaticPages, s) }

func IsCategory(s string) bool { return contains(Categories, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultTable is the portal's URL surface.
var DefaultTable = Table{
	{
		Name:  "home",
		Match: func(r Request) bool { return len(r.Segments) == 0 },
		Build: func(r Request) Route { return Route{Page: PageHome} },
	},
	{
		Name:  "static",
		Match: func(r Request) bool { return len(r.Segments) >= 1 && IsStaticPage(r.Segments[0]) },
		Build: func(r Request) Route { return Route{Page: PageStatic, Static: r.Segments[0]} },
	},
	{
		Name:  "tag",
		Match: func(r Request) bool { return len(r.Segments) >= 2 && r.Segments[0] == "tag" },
		Build: func(r Request) Route { return Route{Page: PageTag, Tag: r.Segments[1]} },
	},
	{
		Name:  "article",
		Match: func(r Request) bool { return len(r.Segments) >= 2 && IsCategory(r.Segments[0]) },
		Build: func(r Request) Route {
			return Route{Page: PageArticle, Category: r.Segments[0], Slug: r.Segments[1]}
		},
	},
	{
		Name:  "category",
		Match: func(r Request) bool { return len(r.Segments) == 1 && IsCategory(r.Segments[0]) },
		Build: func(r Request) Route {
			page := r.Query.Get("page")
			if page == "" {
				page = DefaultPage
			}
			return Route{Page: PageCategory, Category: r.Segments[0], PageNum: page}
		},
	},
}

// Resolve resolves a raw URL ("/anime?page=3", "anime/slug", "") against DefaultTable.
func Resolve(rawURL string) Route { return DefaultTable.Resolve(rawURL) }

// Resolve never fails: anything unparseable or unmatched is the not-found route.
func (t Table) Resolve(rawURL string) Route {
	path, query := splitURL(rawURL)
	return t.ResolveRequest(NewRequest(path, query))
}

// ResolveRequest runs the rules in order for an already parsed request.
func (t Table) ResolveRequest(req Request) Route {
	route := Route{Page: PageNotFound, Name: string(PageNotFound)}
	for _, rule := range t {
		if rule.Match(req) {
			route = rule.Build(req)
			route.Name = rule.Name
			break
		}
	}
	route.Path = req.Path
	route.Query = flatten(req.Query)
	return route
}

// NewRequest splits path into non-empty, URL-decoded segments.
func NewRequest(path string, query url.Values) Request {
	if query == nil {
		query = url.Values{}
	}
	if path == "" {
		path = "/"
	}
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if dec, err := url.PathUnescape(part); err == nil {
			part = dec
		}
		segments = append(segments, part)
	}
	return Request{Path: path, Segments: segments, Query: query}
}

// splitURL returns the escaped path and the parsed query of rawURL.
func splitURL(rawURL string) (string, url.Values) {
	u, err := url.Parse(rawURL)
	if err != nil {
		path, rawQuery, _ := strings.Cut(rawURL, "?")
		q, _ := url.ParseQuery(rawQuery)
		return path, q
	}
	return u.EscapedPath(), u.Query()
}

func flatten(q url.Values) map[string]string {
	if len(q) == 0 {
		return nil
	}
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
