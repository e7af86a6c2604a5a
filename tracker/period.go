package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"anime-news/models"
)

// Timeframe names a popularity bucket.
type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
)

var ErrUnknownTimeframe = errors.New("tracker: unknown timeframe")

// ParseTimeframe accepts daily, weekly or monthly (case-insensitive).
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Daily, Weekly, Monthly:
		return tf, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownTimeframe, s)
}

// PeriodKey is the calendar period containing ts: 2006-01-02, 2006-W01 (ISO week) or 2006-01.
func PeriodKey(tf Timeframe, ts time.Time, loc *time.Location) string {
	if loc != nil {
		ts = ts.In(loc)
	}
	switch tf {
	case Daily:
		return ts.Format("2006-01-02")
	case Monthly:
		return ts.Format("2006-01")
	default:
		year, week := ts.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
}

func bucketFor(p models.PopularityData, tf Timeframe) map[string]models.PeriodCount {
	switch tf {
	case Daily:
		return p.Daily
	case Monthly:
		return p.Monthly
	default:
		return p.Weekly
	}
}

// bump increments id in a bucket, restarting the count when the period rolled over.
func bump(bucket map[string]models.PeriodCount, id, period string) {
	c := bucket[id]
	if c.Period != period {
		c = models.PeriodCount{Period: period}
	}
	c.Count++
	bucket[id] = c
}

// current returns the count of id for period, or 0 when the stored count belongs
// to an earlier period.
func current(bucket map[string]models.PeriodCount, id, period string) int64 {
	c, ok := bucket[id]
	if !ok || c.Period != period {
		return 0
	}
	return c.Count
}
