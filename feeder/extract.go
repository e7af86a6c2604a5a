package feeder

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

const maxExcerptRunes = 240

// Excerpt turns an item's HTML body into a short plain-text excerpt.
// readability 결과가 비면 trafilatura, 그 다음 단순 텍스트 노드 추출 순으로 시도한다.
func Excerpt(body, link string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	pageURL, _ := url.Parse(link)

	text := ""
	if article, err := readability.FromReader(strings.NewReader(body), pageURL); err == nil {
		text = article.Excerpt
		if text == "" {
			text = article.TextContent
		}
	}
	if strings.TrimSpace(text) == "" {
		text = trafilaturaText(body, pageURL)
	}
	if strings.TrimSpace(text) == "" {
		text = plainText(body)
	}
	return truncateRunes(collapseSpace(text), maxExcerptRunes)
}

func trafilaturaText(body string, pageURL *url.URL) string {
	res, err := trafilatura.Extract(strings.NewReader(body), trafilatura.Options{OriginalURL: pageURL})
	if err != nil || res == nil {
		return ""
	}
	return res.ContentText
}

// gooseTopImage 는 og:image 나 img 태그가 없을 때 goose 의 대표 이미지 추정을 사용한다.
func gooseTopImage(body, link string) string {
	article, err := goose.New().ExtractFromRawHTML(body, link)
	if err != nil || article == nil {
		return ""
	}
	return strings.TrimSpace(article.TopImage)
}

// Thumbnail finds the first og:image meta or <img src> in body, resolved against link.
// Without either it falls back to goose's top image.
func Thumbnail(body, link string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	var found string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if attr(n, "property") == "og:image" {
					found = attr(n, "content")
				}
			case "img":
				found = attr(n, "src")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == "" {
		found = gooseTopImage(body, link)
	}
	return resolve(found, link)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func resolve(ref, base string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// plainText concatenates the text nodes of an HTML fragment.
func plainText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}

// Slugify lowercases title and joins its letters and digits with dashes.
func Slugify(title string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}
