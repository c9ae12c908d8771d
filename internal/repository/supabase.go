package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

const draftsTable = "drafts"

// draftRow is a row of the drafts table:
//
//	create table drafts (key text primary key, value text not null, expires_at timestamptz not null);
type draftRow struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SupabaseStore keeps drafts in a Postgres table behind PostgREST. Postgres
// has no native key expiry, so expired rows read as absent and are removed
// on the next Get.
type SupabaseStore struct {
	client *supabase.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewSupabaseStore(url, key string, logger *slog.Logger) (*SupabaseStore, error) {
	if url == "" || key == "" {
		return nil, ErrNotConfigured
	}
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SupabaseStore{
		client: client,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (r *SupabaseStore) Get(ctx context.Context, userID int64) (*model.Draft, error) {
	key := DraftKey(userID)
	data, _, err := r.client.From(draftsTable).
		Select("*", "", false).
		Eq("key", key).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var rows []draftRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse draft rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if rowExpired(rows[0], r.now()) {
		if err := r.Delete(ctx, userID); err != nil {
			r.logger.Warn("failed to purge expired draft", "key", key, "error", err)
		}
		return nil, nil
	}

	draft, err := decodeDraft([]byte(rows[0].Value))
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return draft, nil
}

func (r *SupabaseStore) Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error {
	value, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	row := draftRow{
		Key:       DraftKey(userID),
		Value:     string(value),
		ExpiresAt: r.now().Add(ttl).UTC(),
	}

	if _, _, err := r.client.From(draftsTable).Insert(row, true, "key", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

func (r *SupabaseStore) Delete(ctx context.Context, userID int64) error {
	_, _, err := r.client.From(draftsTable).
		Delete("", "").
		Eq("key", DraftKey(userID)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func rowExpired(row draftRow, now time.Time) bool {
	return !now.Before(row.ExpiresAt)
}
