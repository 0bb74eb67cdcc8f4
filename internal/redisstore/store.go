package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps aggregate usage counters. It never stores accounts, tokens or
// messages.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// New connects to redisURL and verifies the connection with a PING. Counters
// expire ttl after their last increment.
func New(redisURL string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client without pinging it.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func dayKey(event string, day time.Time) string {
	return fmt.Sprintf("stats:%s:%s", event, day.UTC().Format(dateLayout))
}

// Incr adds n to today's counter for event and refreshes its expiry.
func (s *Store) Incr(ctx context.Context, event string, n int64) error {
	if !IsEvent(event) {
		return fmt.Errorf("unknown stats event %q", event)
	}

	key := dayKey(event, s.now())

	pipe := s.client.Pipeline()
	pipe.IncrBy(ctx, key, n)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
