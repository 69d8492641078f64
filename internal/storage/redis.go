package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the slot under a single Redis string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{
		client: client,
		key:    key,
	}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %q: %w", s.key, err)
	}
	return b, nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	err := s.client.Set(ctx, s.key, data, 0).Err()
	if err != nil {
		return fmt.Errorf("set %q: %w", s.key, err)
	}
	return nil
}
