package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewWithClient(client, 48*time.Hour)
	s.now = func() time.Time { return fixedNow }
	return s, mr
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := New("redis://"+mr.Addr()+"/0", time.Hour)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestNewUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = New("redis://"+addr+"/0", time.Hour)
	assert.Error(t, err)

	_, err = New("not a url", time.Hour)
	assert.Error(t, err)
}

func TestIncr(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Incr(ctx, EventAccountsCreated, 1))
	require.NoError(t, s.Incr(ctx, EventAccountsCreated, 1))
	require.NoError(t, s.Incr(ctx, EventMessagesSeen, 5))

	key := "stats:accounts_created:2026-03-14"
	val, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "2", val)
	assert.Equal(t, 48*time.Hour, mr.TTL(key))

	val, err = mr.Get("stats:messages_seen:2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "5", val)
}

func TestIncrUnknownEvent(t *testing.T) {
	s, mr := newTestStore(t)

	err := s.Incr(context.Background(), "logins", 1)
	require.Error(t, err)
	assert.Empty(t, mr.Keys())
}

func TestDaily(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Incr(ctx, EventInboxChecks, 3))

	ds, err := s.Daily(ctx, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", ds.Date)
	assert.Equal(t, map[string]int64{
		EventAccountsCreated: 0,
		EventAccountsFailed:  0,
		EventInboxChecks:     3,
		EventMessagesSeen:    0,
	}, ds.Counts)
}

func TestSummary(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Incr(ctx, EventAccountsCreated, 2))
	mr.Set("stats:accounts_created:2026-03-13", "4")
	mr.Set("stats:accounts_failed:2026-03-12", "1")
	mr.Set("stats:accounts_created:2026-03-01", "100")

	summary, err := s.Summary(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Days)
	require.Len(t, summary.Daily, 3)
	assert.Equal(t, "2026-03-14", summary.Daily[0].Date)
	assert.Equal(t, "2026-03-12", summary.Daily[2].Date)
	assert.Equal(t, int64(6), summary.Totals[EventAccountsCreated])
	assert.Equal(t, int64(1), summary.Totals[EventAccountsFailed])
	assert.Equal(t, int64(0), summary.Totals[EventMessagesSeen])
}
