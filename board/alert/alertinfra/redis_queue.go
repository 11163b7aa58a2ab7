package alertinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/matchbox-hr/matchbox/board/alert"
)

// RedisEventQueue implements alert.EventQueue using a Redis list
type RedisEventQueue struct {
	client    *redis.Client
	queueName string
}

// NewRedisEventQueue creates a new Redis-backed event queue
func NewRedisEventQueue(client *redis.Client, queueName string) alert.EventQueue {
	return &RedisEventQueue{
		client:    client,
		queueName: queueName,
	}
}

// Publish enqueues an event after the triggering write committed
func (q *RedisEventQueue) Publish(ctx context.Context, event alert.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", event.SubjectID, err)
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return fmt.Errorf("enqueue event for %s: %w", event.SubjectID, err)
	}

	return nil
}

// Dequeue blocks up to timeout for the next event
func (q *RedisEventQueue) Dequeue(ctx context.Context, timeout time.Duration) (*alert.Event, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil is returned when the timeout elapses
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue event: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	var event alert.Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	return &event, nil
}

// Size returns the number of pending events
func (q *RedisEventQueue) Size(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return 0, fmt.Errorf("get queue size: %w", err)
	}
	return size, nil
}

// Ping checks if the Redis connection is alive
func (q *RedisEventQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
