// internal/queue/redis.go

// Package queue provides a Redis-backed FIFO job queue for distributing
// work items across worker processes.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dacionxo/leadharvest/internal/lead"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// DefaultKey is the Redis list jobs live on.
const DefaultKey = "leadharvest:jobs"

// ErrEmpty is returned when a blocking pop times out with no job.
var ErrEmpty = errors.New("queue is empty")

// RedisQueue is a FIFO list: producers push JSON-encoded work items on the
// left, workers block-pop from the right.
type RedisQueue struct {
	client *redis.Client
	key    string
	logger utils.Logger
}

// NewRedisQueue connects to Redis and verifies the connection.
func NewRedisQueue(addr, password string, db int, key string, logger utils.Logger) (*RedisQueue, error) {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = utils.NewLogger()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisQueue{client: client, key: key, logger: logger}, nil
}

// Push enqueues one work item.
func (q *RedisQueue) Push(ctx context.Context, item lead.WorkItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode work item: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push job: %w", err)
	}
	return nil
}

// Pop blocks until a job arrives or the timeout passes. A timeout with no
// job returns ErrEmpty so worker loops can idle and poll again.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (lead.WorkItem, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("failed to pop job: %w", err)
	}
	// BRPop returns [key, value].
	if len(res) < 2 {
		return nil, ErrEmpty
	}

	var item lead.WorkItem
	if err := json.Unmarshal([]byte(res[1]), &item); err != nil {
		return nil, fmt.Errorf("failed to decode work item: %w", err)
	}
	return item, nil
}

// Len reports how many jobs are waiting.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return n, nil
}

// Clear drops every queued job.
func (q *RedisQueue) Clear(ctx context.Context) error {
	if err := q.client.Del(ctx, q.key).Err(); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
