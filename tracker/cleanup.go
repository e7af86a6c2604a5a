package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anime-news/config"
)

// CleanupOldData removes dedup timestamps older than the seen retention and
// returns how many keys were deleted. Aggregate counters, popularity data and
// the last-viewed list are left untouched.
func (t *Tracker) CleanupOldData(ctx context.Context) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	keys, err := t.store.Keys(ctx, SeenKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("tracker: list seen keys: %w", err)
	}

	now := t.clock.Now()
	removed := 0
	for _, key := range keys {
		raw, ok, err := t.store.Get(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("tracker: read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		var ts time.Time
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			config.Logger.Warnf("tracker: skip unparseable %s: %v", key, err)
			continue
		}
		if now.Sub(ts) <= t.opts.SeenRetention {
			continue
		}
		if err := t.store.Remove(ctx, key); err != nil {
			return removed, fmt.Errorf("tracker: remove %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}
