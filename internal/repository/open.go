package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// Backend names accepted by Open.
const (
	BackendREST     = "rest"
	BackendRedis    = "redis"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

var ErrUnknownBackend = errors.New("unknown draft store backend")

// Options selects and configures a draft store backend.
type Options struct {
	Backend     string
	KVRestURL   string
	KVRestToken string
	RedisURL    string
	SupabaseURL string
	SupabaseKey string
}

// Open builds the store named by opts.Backend. A backend with missing
// credentials still opens; every call on it fails with ErrNotConfigured.
// The returned func releases the backend's connections.
func Open(opts Options, logger *slog.Logger) (DraftStore, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() error { return nil }

	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case BackendREST, "":
		if opts.KVRestURL == "" || opts.KVRestToken == "" {
			logger.Warn("draft store not configured", "backend", BackendREST)
		}
		return NewKVRestStore(opts.KVRestURL, opts.KVRestToken), noop, nil

	case BackendRedis:
		store, err := NewRedisStoreFromURL(opts.RedisURL)
		if errors.Is(err, ErrNotConfigured) {
			logger.Warn("draft store not configured", "backend", backend)
			return unconfiguredStore{}, noop, nil
		}
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case BackendSupabase:
		store, err := NewSupabaseStore(opts.SupabaseURL, opts.SupabaseKey, logger)
		if errors.Is(err, ErrNotConfigured) {
			logger.Warn("draft store not configured", "backend", backend)
			return unconfiguredStore{}, noop, nil
		}
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case BackendMemory:
		return NewMemoryStore(), noop, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

type unconfiguredStore struct{}

func (unconfiguredStore) Get(ctx context.Context, userID int64) (*model.Draft, error) {
	return nil, ErrNotConfigured
}

func (unconfiguredStore) Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error {
	return ErrNotConfigured
}

func (unconfiguredStore) Delete(ctx context.Context, userID int64) error {
	return ErrNotConfigured
}
