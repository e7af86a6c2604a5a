package services

import (
	"context"
	"errors"

	"anime-news/catalog"
	"anime-news/dto"
	"anime-news/tracker"
)

var ErrMissingVisitor = errors.New("services: visitor id is required")

const (
	DefaultRankingLimit = 5
	MaxRankingLimit     = 50
)

// TrackingService records views and builds the per-visitor rankings.
type TrackingService struct {
	src      catalog.Source
	trackers *VisitorTrackers
}

func NewTrackingService(src catalog.Source, trackers *VisitorTrackers) *TrackingService {
	return &TrackingService{src: src, trackers: trackers}
}

func (s *TrackingService) tracker(visitorID string) (*tracker.Tracker, error) {
	if visitorID == "" {
		return nil, ErrMissingVisitor
	}
	return s.trackers.For(visitorID), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRankingLimit
	}
	if limit > MaxRankingLimit {
		return MaxRankingLimit
	}
	return limit
}

// TrackView counts a view of slug for visitorID.
func (s *TrackingService) TrackView(ctx context.Context, visitorID, slug string) (dto.ViewResultDTO, error) {
	t, err := s.tracker(visitorID)
	if err != nil {
		return dto.ViewResultDTO{}, err
	}
	a, err := s.src.GetArticleBySlug(ctx, slug)
	if err != nil {
		return dto.ViewResultDTO{}, err
	}
	counted, err := t.TrackArticleView(ctx, a)
	if err != nil {
		return dto.ViewResultDTO{}, err
	}
	return dto.ViewResultDTO{Counted: counted, ViewCount: t.GetViewCount(ctx, a.ID)}, nil
}

func (s *TrackingService) Stats(ctx context.Context, visitorID, slug string) (dto.ArticleStatsDTO, error) {
	t, err := s.tracker(visitorID)
	if err != nil {
		return dto.ArticleStatsDTO{}, err
	}
	a, err := s.src.GetArticleBySlug(ctx, slug)
	if err != nil {
		return dto.ArticleStatsDTO{}, err
	}
	return dto.NewArticleStatsDTO(t.GetViewRecord(ctx, a.ID), t.IsRecentlyViewed(ctx, a.ID)), nil
}

func (s *TrackingService) Related(ctx context.Context, visitorID, slug string, limit int, lang string) ([]dto.RelatedArticleDTO, error) {
	t, err := s.tracker(visitorID)
	if err != nil {
		return nil, err
	}
	a, err := s.src.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	all, err := s.src.GetAllArticles(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewRelatedDTOs(t.GetRelatedArticles(a, all, clampLimit(limit)), lang), nil
}

func (s *TrackingService) Trending(ctx context.Context, visitorID string, limit int, lang string) ([]dto.TrendingArticleDTO, error) {
	t, err := s.tracker(visitorID)
	if err != nil {
		return nil, err
	}
	all, err := s.src.GetAllArticles(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewTrendingDTOs(t.GetTrendingArticles(ctx, all, clampLimit(limit)), lang), nil
}

// Popular ranks by timeframe ("daily", "weekly", "monthly"; empty means weekly).
func (s *TrackingService) Popular(ctx context.Context, visitorID, timeframe string, limit int, lang string) ([]dto.PopularArticleDTO, error) {
	if timeframe == "" {
		timeframe = string(tracker.Weekly)
	}
	tf, err := tracker.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	t, err := s.tracker(visitorID)
	if err != nil {
		return nil, err
	}
	all, err := s.src.GetAllArticles(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPopularDTOs(t.GetPopularArticles(ctx, all, tf, clampLimit(limit)), lang), nil
}

func (s *TrackingService) LastViewed(ctx context.Context, visitorID, lang string) ([]dto.LastViewedDTO, error) {
	t, err := s.tracker(visitorID)
	if err != nil {
		return nil, err
	}
	return dto.NewLastViewedDTOs(t.GetLastViewed(ctx), lang), nil
}
