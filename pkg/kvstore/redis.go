package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/storefront/pkg/config"
)

// RedisStore implements Store backed by Redis, for state shared between
// multiple storefront clients. Expiry is delegated to Redis TTLs.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"storefront:"`
}

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrUnavailable, err)
	}

	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

// NewRedisStoreFromEnv loads RedisConfig from the environment and connects.
func NewRedisStoreFromEnv(ctx context.Context) (*RedisStore, error) {
	var cfg RedisConfig
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewRedisStore(ctx, cfg)
}

// NewRedisStoreWithClient wraps an existing client, e.g. a shared pool.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrUnavailable, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) RemoveByPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, s.keyPrefix+prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Join(ErrUnavailable, err)
		}
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
