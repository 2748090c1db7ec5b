package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisQueueKey = "auth:tasks"

type redisLister interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisQueue persiste las tareas en una lista de Redis (LPUSH / BRPOP),
// de modo que sobreviven a un reinicio del proceso.
type RedisQueue struct {
	client      redisLister
	key         string
	pollTimeout time.Duration
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = defaultRedisQueueKey
	}
	return &RedisQueue{
		client:      client,
		key:         key,
		pollTimeout: time.Second,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Task, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Task{}, err
		}
		res, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Task{}, ctxErr
			}
			return Task{}, err
		}
		// BRPOP devuelve [key, value].
		if len(res) != 2 {
			return Task{}, fmt.Errorf("unexpected brpop reply: %v", res)
		}
		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			return Task{}, fmt.Errorf("decode task: %w", err)
		}
		return task, nil
	}
}
