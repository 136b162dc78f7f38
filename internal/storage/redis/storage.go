package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/scoretracker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultConfig().Namespace
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Get(ctx context.Context, key storage.Key) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Storage) Set(ctx context.Context, key storage.Key, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, s.cfg.TTL).Err()
}

func (s *Storage) SetMany(ctx context.Context, values map[storage.Key][]byte) error {
	if len(values) == 0 {
		return nil
	}

	// MULTI/EXEC so readers never observe a half-written session
	pipe := s.client.TxPipeline()
	for key, value := range values {
		pipe.Set(ctx, s.key(key), value, s.cfg.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) Delete(ctx context.Context, keys ...storage.Key) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = s.key(key)
	}
	return s.client.Del(ctx, redisKeys...).Err()
}

func (s *Storage) key(key storage.Key) string {
	return sessionKey(s.cfg.Namespace, key)
}
