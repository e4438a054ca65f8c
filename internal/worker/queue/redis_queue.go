package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPopTimeout is how long Pop blocks server-side before returning
// an empty id.
const DefaultPopTimeout = 5 * time.Second

// RedisQueue is a FIFO of export ids on a Redis list: LPUSH in, BRPOP out.
type RedisQueue struct {
	rdb        *redis.Client
	queueName  string
	popTimeout time.Duration
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName, popTimeout: DefaultPopTimeout}
}

// WithPopTimeout overrides DefaultPopTimeout. Redis blocks in whole seconds.
func (q *RedisQueue) WithPopTimeout(d time.Duration) *RedisQueue {
	q.popTimeout = d
	return q
}

func (q *RedisQueue) Name() string { return q.queueName }

func (q *RedisQueue) Push(ctx context.Context, id string) error {
	return q.rdb.LPush(ctx, q.queueName, id).Err()
}

// Pop blocks until an id is available or the pop timeout passes, in which
// case it returns "" and a nil error.
func (q *RedisQueue) Pop(ctx context.Context) (string, error) {
	res, err := q.rdb.BRPop(ctx, q.popTimeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	if len(res) < 2 {
		return "", nil
	}
	return res[1], nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queueName).Result()
}
