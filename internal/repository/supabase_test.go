package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// fakePostgREST serves the drafts table the way PostgREST does for the
// queries the store issues.
type fakePostgREST struct {
	mu      sync.Mutex
	rows    map[string]draftRow
	key     string
	prefer  []string
	deletes int
	fail    bool
}

func newFakePostgREST(key string) *fakePostgREST {
	return &fakePostgREST{rows: map[string]draftRow{}, key: key}
}

func (f *fakePostgREST) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": "PGRST000", "message": msg})
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != f.key {
		f.writeError(w, http.StatusUnauthorized, "invalid api key")
		return
	}
	if r.URL.Path != "/rest/v1/"+draftsTable {
		f.writeError(w, http.StatusNotFound, "unknown table")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		f.writeError(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	key := strings.TrimPrefix(r.URL.Query().Get("key"), "eq.")

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		rows := []draftRow{}
		if row, ok := f.rows[key]; ok {
			rows = append(rows, row)
		}
		_ = json.NewEncoder(w).Encode(rows)

	case http.MethodPost:
		if r.URL.Query().Get("on_conflict") != "key" {
			f.writeError(w, http.StatusConflict, "duplicate key value")
			return
		}
		body, _ := io.ReadAll(r.Body)
		var row draftRow
		if err := json.Unmarshal(body, &row); err != nil {
			f.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.prefer = append(f.prefer, r.Header.Get("Prefer"))
		f.rows[row.Key] = row
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]draftRow{row})

	case http.MethodDelete:
		f.deletes++
		rows := []draftRow{}
		if row, ok := f.rows[key]; ok {
			rows = append(rows, row)
			delete(f.rows, key)
		}
		_ = json.NewEncoder(w).Encode(rows)

	default:
		f.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (f *fakePostgREST) row(key string) (draftRow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[key]
	return row, ok
}

func newTestSupabaseStore(t *testing.T, fake *fakePostgREST, clock *fakeClock) *SupabaseStore {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewSupabaseStore(server.URL, fake.key, discardLogger())
	if err != nil {
		t.Fatalf("NewSupabaseStore returned error: %v", err)
	}
	store.now = clock.Now
	return store
}

func TestSupabaseStoreRoundTrip(t *testing.T) {
	fake := newFakePostgREST("anon")
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newTestSupabaseStore(t, fake, clock)
	ctx := context.Background()

	got, err := store.Get(ctx, 7)
	if err != nil || got != nil {
		t.Fatalf("expected absent draft, got %+v, %v", got, err)
	}

	if err := store.Put(ctx, 7, &model.Draft{TxID: "TX-7", Address: "B7/12"}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	row, ok := fake.row("draft:7")
	if !ok {
		t.Fatalf("expected row draft:7")
	}
	if want := clock.Now().Add(DraftTTL); !row.ExpiresAt.Equal(want) {
		t.Fatalf("expected expires_at %v, got %v", want, row.ExpiresAt)
	}
	if len(fake.prefer) != 1 || !strings.Contains(fake.prefer[0], "resolution=merge-duplicates") {
		t.Fatalf("expected upsert preference, got %v", fake.prefer)
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
	if _, ok := fake.row("draft:7"); ok {
		t.Fatalf("expected row removed")
	}
	if got, err := store.Get(ctx, 7); err != nil || got != nil {
		t.Fatalf("expected draft deleted, got %+v, %v", got, err)
	}
}

func TestSupabaseStorePutResetsExpiry(t *testing.T) {
	fake := newFakePostgREST("anon")
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newTestSupabaseStore(t, fake, clock)
	ctx := context.Background()

	if err := store.Put(ctx, 7, &model.Draft{TxID: "TX-7", Version: 1}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	clock.Advance(20 * time.Minute)
	if err := store.Put(ctx, 7, &model.Draft{TxID: "TX-7", Version: 2}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	clock.Advance(20 * time.Minute)

	got, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil || got.Version != 2 {
		t.Fatalf("expected second write to survive, got %+v", got)
	}
	if len(fake.rows) != 1 {
		t.Fatalf("expected a single upserted row, got %d", len(fake.rows))
	}
}

func TestSupabaseStoreExpiredRowIsPurged(t *testing.T) {
	fake := newFakePostgREST("anon")
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newTestSupabaseStore(t, fake, clock)
	ctx := context.Background()

	if err := store.Put(ctx, 7, &model.Draft{TxID: "TX-7"}, DraftTTL); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	clock.Advance(DraftTTL)

	got, err := store.Get(ctx, 7)
	if err != nil || got != nil {
		t.Fatalf("expected expired draft to read as absent, got %+v, %v", got, err)
	}
	if _, ok := fake.row("draft:7"); ok {
		t.Fatalf("expected expired row deleted")
	}
	if fake.deletes != 1 {
		t.Fatalf("expected one delete, got %d", fake.deletes)
	}
}

func TestSupabaseStoreRejectsMalformedRow(t *testing.T) {
	fake := newFakePostgREST("anon")
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newTestSupabaseStore(t, fake, clock)
	fake.rows["draft:7"] = draftRow{Key: "draft:7", Value: "not json", ExpiresAt: clock.Now().Add(time.Minute)}

	if _, err := store.Get(context.Background(), 7); err == nil || !strings.Contains(err.Error(), "failed to decode draft") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSupabaseStoreSurfacesErrors(t *testing.T) {
	fake := newFakePostgREST("anon")
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	store := newTestSupabaseStore(t, fake, clock)
	fake.fail = true
	ctx := context.Background()

	if _, err := store.Get(ctx, 7); err == nil {
		t.Fatalf("Get: expected error")
	}
	if err := store.Put(ctx, 7, &model.Draft{TxID: "TX-7"}, DraftTTL); err == nil {
		t.Fatalf("Put: expected error")
	}
	if err := store.Delete(ctx, 7); err == nil {
		t.Fatalf("Delete: expected error")
	}
}
