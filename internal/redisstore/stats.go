package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const dateLayout = "2006-01-02"

// Usage events.
const (
	EventAccountsCreated = "accounts_created"
	EventAccountsFailed  = "accounts_failed"
	EventInboxChecks     = "inbox_checks"
	EventMessagesSeen    = "messages_seen"
)

// Events lists every event in display order.
var Events = []string{
	EventAccountsCreated,
	EventAccountsFailed,
	EventInboxChecks,
	EventMessagesSeen,
}

func IsEvent(event string) bool {
	for _, e := range Events {
		if e == event {
			return true
		}
	}
	return false
}

type DayStats struct {
	Date   string           `json:"date"`
	Counts map[string]int64 `json:"counts"`
}

type Summary struct {
	Days   int              `json:"days"`
	Totals map[string]int64 `json:"totals"`
	Daily  []DayStats       `json:"daily"`
}

// Daily returns the counters of a single day. Missing counters are zero.
func (s *Store) Daily(ctx context.Context, day time.Time) (DayStats, error) {
	keys := make([]string, len(Events))
	for i, e := range Events {
		keys[i] = dayKey(e, day)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return DayStats{}, err
	}

	return toDayStats(day, vals), nil
}

// Summary returns the counters of the last n days, newest first, along with
// their totals.
func (s *Store) Summary(ctx context.Context, n int) (*Summary, error) {
	today := s.now().UTC()

	pipe := s.client.Pipeline()
	cmds := make([]*redis.SliceCmd, n)
	for i := 0; i < n; i++ {
		day := today.AddDate(0, 0, -i)
		keys := make([]string, len(Events))
		for j, e := range Events {
			keys[j] = dayKey(e, day)
		}
		cmds[i] = pipe.MGet(ctx, keys...)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	summary := &Summary{
		Days:   n,
		Totals: zeroCounts(),
		Daily:  make([]DayStats, 0, n),
	}

	for i, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil {
			return nil, err
		}

		ds := toDayStats(today.AddDate(0, 0, -i), vals)
		for e, c := range ds.Counts {
			summary.Totals[e] += c
		}
		summary.Daily = append(summary.Daily, ds)
	}

	return summary, nil
}

func zeroCounts() map[string]int64 {
	counts := make(map[string]int64, len(Events))
	for _, e := range Events {
		counts[e] = 0
	}
	return counts
}

func toDayStats(day time.Time, vals []any) DayStats {
	ds := DayStats{
		Date:   day.UTC().Format(dateLayout),
		Counts: zeroCounts(),
	}

	for i, val := range vals {
		str, ok := val.(string)
		if !ok {
			continue // Expired or never set
		}
		if c, err := strconv.ParseInt(str, 10, 64); err == nil {
			ds.Counts[Events[i]] = c
		}
	}

	return ds
}
