package prefs

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// RedisThemeStore persists the theme under a single key with no TTL.
type RedisThemeStore struct {
	client *redis.Client
	key    string
}

func NewRedisThemeStore(addr, password string, db int, key string) *RedisThemeStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisThemeStore{client: client, key: key}
}

func (s *RedisThemeStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisThemeStore) Close() error {
	return s.client.Close()
}

func (s *RedisThemeStore) Get(ctx context.Context) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisThemeStore) Set(ctx context.Context, theme string) error {
	return s.client.Set(ctx, s.key, theme, 0).Err()
}

func (s *RedisThemeStore) Persistent() bool { return true }
