package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"anime-news/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Articles []models.Article `yaml:"articles"`
}

// Static is an in-memory catalog loaded once from YAML.
type Static struct {
	articles []models.Article
	bySlug   map[string]int
}

// NewStatic builds a catalog from articles. Articles without id or slug are rejected.
func NewStatic(articles []models.Article) (*Static, error) {
	s := &Static{
		articles: make([]models.Article, 0, len(articles)),
		bySlug:   make(map[string]int, len(articles)),
	}
	ids := make(map[string]struct{}, len(articles))
	slugs := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		if a.ID == "" || a.Slug == "" {
			return nil, fmt.Errorf("catalog: article %q: id and slug are required", a.Slug)
		}
		if _, dup := ids[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate id %q", a.ID)
		}
		if _, dup := slugs[a.Slug]; dup {
			return nil, fmt.Errorf("catalog: duplicate slug %q", a.Slug)
		}
		ids[a.ID] = struct{}{}
		slugs[a.Slug] = struct{}{}
		s.articles = append(s.articles, a)
	}
	SortNewest(s.articles)
	for i, a := range s.articles {
		s.bySlug[a.Slug] = i
	}
	return s, nil
}

// ParseSeed decodes a seed document ("articles:" list).
func ParseSeed(data []byte) ([]models.Article, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse seed: %w", err)
	}
	return f.Articles, nil
}

// SeedArticles returns the embedded seed, or the file at path when path is set.
func SeedArticles(path string) ([]models.Article, error) {
	data := seedYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read seed %s: %w", path, err)
		}
		data = b
	}
	return ParseSeed(data)
}

// LoadStatic builds a Static catalog from SeedArticles(path).
func LoadStatic(path string) (*Static, error) {
	articles, err := SeedArticles(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(articles)
}

func (s *Static) GetAllArticles(context.Context) ([]models.Article, error) {
	return clone(s.articles), nil
}

func (s *Static) GetArticlesByCategory(_ context.Context, category string) ([]models.Article, error) {
	return Filter(s.articles, ListOptions{Category: category}), nil
}

func (s *Static) GetArticlesByTag(_ context.Context, tag string) ([]models.Article, error) {
	return Filter(s.articles, ListOptions{Tag: tag}), nil
}

func (s *Static) GetArticleBySlug(_ context.Context, slug string) (models.Article, error) {
	i, ok := s.bySlug[strings.TrimSpace(slug)]
	if !ok {
		return models.Article{}, ErrNotFound
	}
	return s.articles[i], nil
}

func (s *Static) List(_ context.Context, opt ListOptions) ([]models.Article, int64, error) {
	opt = opt.Normalize()
	page, total := Paginate(Filter(s.articles, opt), opt)
	return page, total, nil
}

func clone(articles []models.Article) []models.Article {
	return append([]models.Article(nil), articles...)
}
