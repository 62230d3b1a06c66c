package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultQueueKey = "inkflow:delayed_executions"

// RedisDelayQueue stores suspended execution ids in a sorted set scored by
// their resume time, so delays survive process restarts and never hold a
// goroutine.
type RedisDelayQueue struct {
	client redis.UniversalClient
	key    string
}

func NewRedisDelayQueue(client redis.UniversalClient, key string) *RedisDelayQueue {
	if key == "" {
		key = defaultQueueKey
	}

	return &RedisDelayQueue{client: client, key: key}
}

// Schedule enqueues an execution for resume at the given instant.
func (q *RedisDelayQueue) Schedule(ctx context.Context, executionID string, resumeAt time.Time) error {
	err := q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(resumeAt.Unix()),
		Member: executionID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue delayed execution %s: %w", executionID, err)
	}

	return nil
}

// PopDue removes and returns the execution ids whose resume time is at or
// before now.
func (q *RedisDelayQueue) PopDue(ctx context.Context, now time.Time) ([]string, error) {
	due, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read delayed executions: %w", err)
	}

	if len(due) == 0 {
		return nil, nil
	}

	members := make([]any, len(due))
	for i, id := range due {
		members[i] = id
	}

	if err := q.client.ZRem(ctx, q.key, members...).Err(); err != nil {
		return nil, fmt.Errorf("failed to dequeue delayed executions: %w", err)
	}

	return due, nil
}

// HealthCheck pings the backing redis.
func (q *RedisDelayQueue) HealthCheck(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
