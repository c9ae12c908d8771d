package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// RedisStore keeps drafts in Redis using SET EX, so expiry is enforced by the server.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromURL parses a redis:// or rediss:// URL.
func NewRedisStoreFromURL(rawURL string) (*RedisStore, error) {
	if rawURL == "" {
		return nil, ErrNotConfigured
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts)), nil
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (*model.Draft, error) {
	raw, err := s.client.Get(ctx, DraftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft: %w", err)
	}
	draft, err := decodeDraft(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return draft, nil
}

func (s *RedisStore) Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error {
	value, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, DraftKey(userID), value, time.Duration(ttlSeconds(ttl))*time.Second).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, DraftKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
