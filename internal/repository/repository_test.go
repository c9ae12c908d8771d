package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

func TestDraftKey(t *testing.T) {
	if got := DraftKey(42); got != "draft:42" {
		t.Fatalf("expected draft:42, got %q", got)
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStoreExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := NewMemoryStoreWithClock(clock.Now)

	if err := store.Put(ctx, 1, &model.Draft{TxID: "TX-1", Name: "Budi"}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	clock.Advance(DraftTTL - time.Second)
	got, err := store.Get(ctx, 1)
	if err != nil || got == nil || got.Name != "Budi" {
		t.Fatalf("expected live draft before TTL, got %+v, %v", got, err)
	}

	clock.Advance(time.Second)
	got, err = store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no draft after TTL, got %+v", got)
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be purged")
	}
}

func TestMemoryStorePutResetsTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := NewMemoryStoreWithClock(clock.Now)

	_ = store.Put(ctx, 1, &model.Draft{TxID: "TX-1"}, DraftTTL)
	clock.Advance(20 * time.Minute)
	_ = store.Put(ctx, 1, &model.Draft{TxID: "TX-1", Headcount: 2}, DraftTTL)
	clock.Advance(20 * time.Minute)

	got, err := store.Get(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("expected draft to survive after rewrite, got %+v, %v", got, err)
	}
	if got.Headcount != 2 {
		t.Fatalf("expected latest write, got %+v", got)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	d := &model.Draft{TxID: "TX-1", Name: "Budi"}
	_ = store.Put(ctx, 1, d, DraftTTL)
	d.Name = "changed"

	got, _ := store.Get(ctx, 1)
	if got.Name != "Budi" {
		t.Fatalf("store must not alias caller draft, got %q", got.Name)
	}

	_ = store.Delete(ctx, 1)
	if got, _ := store.Get(ctx, 1); got != nil {
		t.Fatalf("expected draft deleted, got %+v", got)
	}
}

// fakeKV mimics the Upstash REST API closely enough for the store.
type fakeKV struct {
	mu     sync.Mutex
	values map[string]string
	ex     map[string]string
	token  string
}

func (f *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
		return
	}
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) != 2 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad path"})
		return
	}
	command, key := parts[0], parts[1]

	f.mu.Lock()
	defer f.mu.Unlock()
	switch command {
	case "get":
		v, ok := f.values[key]
		if !ok {
			_, _ = w.Write([]byte(`{"result":null}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": v})
	case "set":
		body, _ := io.ReadAll(r.Body)
		f.values[key] = string(body)
		f.ex[key] = r.URL.Query().Get("EX")
		_, _ = w.Write([]byte(`{"result":"OK"}`))
	case "del":
		delete(f.values, key)
		_, _ = w.Write([]byte(`{"result":1}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown command"})
	}
}

func TestKVRestStoreRoundTrip(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}, ex: map[string]string{}, token: "secret"}
	server := httptest.NewServer(kv)
	defer server.Close()

	ctx := context.Background()
	store := NewKVRestStore(server.URL+"/", "secret")

	got, err := store.Get(ctx, 7)
	if err != nil || got != nil {
		t.Fatalf("expected absent draft, got %+v, %v", got, err)
	}

	if err := store.Put(ctx, 7, &model.Draft{TxID: "TX-7", Address: "B7/12"}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if kv.ex["draft:7"] != "1800" {
		t.Fatalf("expected EX=1800, got %q", kv.ex["draft:7"])
	}

	got, err = store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil || got.TxID != "TX-7" || got.Address != "B7/12" {
		t.Fatalf("unexpected draft %+v", got)
	}

	if err := store.Delete(ctx, 7); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got, _ := store.Get(ctx, 7); got != nil {
		t.Fatalf("expected draft deleted, got %+v", got)
	}
}

func TestKVRestStoreSurfacesErrors(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}, ex: map[string]string{}, token: "secret"}
	server := httptest.NewServer(kv)
	defer server.Close()

	store := NewKVRestStore(server.URL, "wrong")
	if _, err := store.Get(context.Background(), 1); err == nil {
		t.Fatalf("expected error for rejected token")
	}
}

func TestKVRestStoreNotConfigured(t *testing.T) {
	store := NewKVRestStore("", "")
	_, err := store.Get(context.Background(), 1)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := store.Put(context.Background(), 1, &model.Draft{}, DraftTTL); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Put(ctx, 3, &model.Draft{TxID: "TX-3", Headcount: 4}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if ttl := mr.TTL("draft:3"); ttl != DraftTTL {
		t.Fatalf("expected TTL %v, got %v", DraftTTL, ttl)
	}

	got, err := store.Get(ctx, 3)
	if err != nil || got == nil || got.Headcount != 4 {
		t.Fatalf("unexpected draft %+v, %v", got, err)
	}

	mr.FastForward(DraftTTL)
	got, err = store.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired draft to be absent, got %+v", got)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	ctx := context.Background()
	_ = store.Put(ctx, 3, &model.Draft{TxID: "TX-3"}, DraftTTL)
	if err := store.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if mr.Exists("draft:3") {
		t.Fatalf("expected key removed")
	}
}

func TestNewRedisStoreFromURLRequiresURL(t *testing.T) {
	if _, err := NewRedisStoreFromURL(""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSupabaseRowExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if rowExpired(draftRow{ExpiresAt: now.Add(time.Second)}, now) {
		t.Fatalf("row with future expiry reported expired")
	}
	if !rowExpired(draftRow{ExpiresAt: now}, now) {
		t.Fatalf("row expiring now must be treated as absent")
	}
}

func TestNewSupabaseStoreRequiresCredentials(t *testing.T) {
	if _, err := NewSupabaseStore("", "", nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
