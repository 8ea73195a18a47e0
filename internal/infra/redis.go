package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the shared go-redis client backing the allocation preview
// cache, the rate limiter and the background job queues.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Fail at startup rather than on the first cached preview or enqueue
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
