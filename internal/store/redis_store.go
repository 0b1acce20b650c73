package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/jazzys-box/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each box under two string keys, the way the site kept
// it in local storage. A non-zero ttl expires abandoned boxes and is
// refreshed on every save.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStore) Load(ctx context.Context, boxID string) (domain.Box, error) {
	vals, err := r.client.MGet(ctx, cartKey(r.prefix, boxID), discountKey(r.prefix, boxID)).Result()
	if err != nil {
		return domain.Box{}, fmt.Errorf("redis mget failed: %w", err)
	}
	return decodeBox(asBytes(vals[0]), asBytes(vals[1])), nil
}

func (r *RedisStore) Save(ctx context.Context, boxID string, box domain.Box) error {
	cart, discount, err := encodeBox(box)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, cartKey(r.prefix, boxID), cart, r.ttl)
		pipe.Set(ctx, discountKey(r.prefix, boxID), discount, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}
	return nil
}

func asBytes(v interface{}) []byte {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return []byte(s)
}
