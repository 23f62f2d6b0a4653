package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSnapshotPrefix = "cyberpit:snapshot:"

// RedisSnapshotRepository stores each snapshot as a hash with payload and
// saved_at fields.
type RedisSnapshotRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisSnapshotRepository creates the repository. ttl 0 keeps snapshots
// until overwritten.
func NewRedisSnapshotRepository(client redis.Cmdable, ttl time.Duration) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{client: client, ttl: ttl}
}

var _ SnapshotRepository = (*RedisSnapshotRepository)(nil)

func (r *RedisSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	k := redisSnapshotPrefix + key
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, "payload", payload, "saved_at", strconv.FormatInt(time.Now().UnixMilli(), 10))
		if r.ttl > 0 {
			p.Expire(ctx, k, r.ttl)
		}
		return nil
	})
	return err
}

func (r *RedisSnapshotRepository) Load(ctx context.Context, key string) (*Snapshot, error) {
	vals, err := r.client.HGetAll(ctx, redisSnapshotPrefix+key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	payload, ok := vals["payload"]
	if !ok {
		return nil, ErrNotFound
	}
	s := &Snapshot{Key: key, Payload: []byte(payload)}
	if ms, err := strconv.ParseInt(vals["saved_at"], 10, 64); err == nil {
		s.SavedAt = time.UnixMilli(ms)
	}
	return s, nil
}
