package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
)

const defaultSessionPrefix = "haoshi:session:"

// RedisSessionConfig connection settings for the Redis session store
type RedisSessionConfig struct {
	URL    string
	Prefix string
	// TTL 0 keeps sessions until deleted
	TTL time.Duration
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore connects to Redis and verifies the connection with PING
func NewRedisSessionStore(ctx context.Context, cfg RedisSessionConfig) (repository.SessionStore, func() error, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisSessionStore(client, cfg), client.Close, nil
}

func newRedisSessionStore(client *redis.Client, cfg RedisSessionConfig) *redisSessionStore {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &redisSessionStore{
		client: client,
		prefix: prefix,
		ttl:    cfg.TTL,
	}
}

// GetMode reads the stored mode; a missing key is ModeIdle
func (s *redisSessionStore) GetMode(ctx context.Context, userID string) (entity.SessionMode, error) {
	val, err := s.client.Get(ctx, s.prefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return entity.ModeIdle, nil
	}
	if err != nil {
		return entity.ModeIdle, fmt.Errorf("redis get session: %w", err)
	}
	return entity.ParseSessionMode(val)
}

// SetMode writes the mode; Idle deletes the key to keep the keyspace small
func (s *redisSessionStore) SetMode(ctx context.Context, userID string, mode entity.SessionMode) error {
	key := s.prefix + userID
	if mode == entity.ModeIdle {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del session: %w", err)
		}
		return nil
	}
	if err := s.client.Set(ctx, key, mode.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}
