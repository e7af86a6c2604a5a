package models

import "time"

// ViewRecord is the per-article view counter of one visitor.
// sessions currently moves in lockstep with count.
type ViewRecord struct {
	Count      int64     `json:"count"`
	LastViewed time.Time `json:"last_viewed"`
	Sessions   int64     `json:"sessions"`
}

// LastViewedEntry is one element of the bounded recently-opened list.
type LastViewedEntry struct {
	ID        string        `json:"id"`
	Title     LocalizedText `json:"title"`
	Slug      string        `json:"slug"`
	Category  string        `json:"category"`
	ViewedAt  time.Time     `json:"viewed_at"`
	Thumbnail string        `json:"thumbnail,omitempty"`
}

// PeriodCount is a counter attributed to one calendar period.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// TrendingScore is a decayed score and the time it was last written.
type TrendingScore struct {
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PopularityData holds the timeframe buckets and trending scores keyed by article id.
type PopularityData struct {
	Daily    map[string]PeriodCount   `json:"daily"`
	Weekly   map[string]PeriodCount   `json:"weekly"`
	Monthly  map[string]PeriodCount   `json:"monthly"`
	Trending map[string]TrendingScore `json:"trending"`
}

// NewPopularityData returns PopularityData with every map allocated.
func NewPopularityData() PopularityData {
	return PopularityData{
		Daily:    map[string]PeriodCount{},
		Weekly:   map[string]PeriodCount{},
		Monthly:  map[string]PeriodCount{},
		Trending: map[string]TrendingScore{},
	}
}
