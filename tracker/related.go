package tracker

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"anime-news/models"
)

// Related scoring weights.
const (
	sharedCategoryScore = 50.0
	sharedTagScore      = 10.0
	sharedWordScore     = 5.0
	maxPopularityScore  = 20.0
	freshWeekScore      = 10.0
	freshMonthScore     = 5.0
)

type RelatedArticle struct {
	models.Article
	Score float64
}

// Related scores every candidate except current itself and returns the best
// limit of them, highest first. It touches no persisted state.
func Related(current models.Article, all []models.Article, limit int, now time.Time) []RelatedArticle {
	cats := toSet(current.CategorySet())
	tags := toSet(current.Tags)
	words := significantWords(current)

	out := make([]RelatedArticle, 0, len(all))
	for _, a := range all {
		if a.ID == current.ID {
			continue
		}
		out = append(out, RelatedArticle{Article: a, Score: relatedScore(cats, tags, words, a, now)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return truncate(out, limit)
}

func relatedScore(cats, tags, words map[string]struct{}, a models.Article, now time.Time) float64 {
	score := 0.0

	for _, c := range a.CategorySet() {
		if _, ok := cats[c]; ok {
			score += sharedCategoryScore
			break
		}
	}

	for tag := range toSet(a.Tags) {
		if _, ok := tags[tag]; ok {
			score += sharedTagScore
		}
	}

	for w := range significantWords(a) {
		if _, ok := words[w]; ok {
			score += sharedWordScore
		}
	}

	score += math.Min(float64(a.Views)/100, maxPopularityScore)

	if !a.PublishedAt.IsZero() {
		age := now.Sub(a.PublishedAt)
		switch {
		case age <= 7*24*time.Hour:
			score += freshWeekScore
		case age <= 30*24*time.Hour:
			score += freshMonthScore
		}
	}
	return score
}

// significantWords collects lowercase whitespace-separated words longer than
// three runes from the title and excerpt of every locale.
func significantWords(a models.Article) map[string]struct{} {
	set := make(map[string]struct{})
	add := func(text models.LocalizedText) {
		for _, s := range text {
			for _, w := range strings.Fields(strings.ToLower(s)) {
				if utf8.RuneCountInString(w) > 3 {
					set[w] = struct{}{}
				}
			}
		}
	}
	add(a.Title)
	add(a.Excerpt)
	return set
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
