package services

import (
	"context"
	"errors"
	"strings"

	"anime-news/catalog"
	"anime-news/dto"
	"anime-news/routing"
)

var ErrInvalidCategory = errors.New("services: unknown category")

// ArticleService encapsulates catalog reads and DTO mapping.
type ArticleService struct {
	src catalog.Source
}

func NewArticleService(src catalog.Source) *ArticleService {
	return &ArticleService{src: src}
}

type ListArticlesInput struct {
	Page     int
	PageSize int
	Category string
	Tag      string
	Lang     string
}

func (s *ArticleService) List(ctx context.Context, in ListArticlesInput) (dto.Pagination[dto.ArticleDTO], error) {
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category != "" && !routing.IsCategory(category) {
		return dto.Pagination[dto.ArticleDTO]{}, ErrInvalidCategory
	}
	opt := catalog.ListOptions{
		Page:     in.Page,
		PageSize: in.PageSize,
		Category: category,
		Tag:      in.Tag,
	}.Normalize()

	items, total, err := s.src.List(ctx, opt)
	if err != nil {
		return dto.Pagination[dto.ArticleDTO]{}, err
	}
	return dto.Pagination[dto.ArticleDTO]{
		Data:     dto.NewArticleDTOs(items, in.Lang),
		Page:     opt.Page,
		PageSize: opt.PageSize,
		Total:    total,
	}, nil
}

// GetBySlug returns catalog.ErrNotFound for an unknown slug.
func (s *ArticleService) GetBySlug(ctx context.Context, slug, lang string) (dto.ArticleDTO, error) {
	a, err := s.src.GetArticleBySlug(ctx, slug)
	if err != nil {
		return dto.ArticleDTO{}, err
	}
	return dto.NewArticleDTO(a, lang), nil
}

// Categories lists every content category with its article count, in menu order.
func (s *ArticleService) Categories(ctx context.Context) ([]dto.CategoryDTO, error) {
	all, err := s.src.GetAllArticles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(routing.Categories))
	for _, c := range routing.Categories {
		out = append(out, dto.CategoryDTO{
			Name:  c,
			Count: len(catalog.Filter(all, catalog.ListOptions{Category: c})),
			Path:  "/" + c,
		})
	}
	return out, nil
}
