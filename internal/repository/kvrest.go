package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// KVRestStore talks to an Upstash / Vercel KV compatible REST endpoint.
type KVRestStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type kvResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewKVRestStore(baseURL, token string) *KVRestStore {
	return &KVRestStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *KVRestStore) Get(ctx context.Context, userID int64) (*model.Draft, error) {
	result, err := s.call(ctx, http.MethodGet, "get", DraftKey(userID), nil, nil)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}

	// the value was stored as a string holding the draft JSON
	var raw string
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode kv value: %w", err)
	}
	draft, err := decodeDraft([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return draft, nil
}

func (s *KVRestStore) Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error {
	value, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	query := url.Values{"EX": []string{strconv.FormatInt(ttlSeconds(ttl), 10)}}
	_, err = s.call(ctx, http.MethodPost, "set", DraftKey(userID), query, value)
	return err
}

func (s *KVRestStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.call(ctx, http.MethodGet, "del", DraftKey(userID), nil, nil)
	return err
}

func (s *KVRestStore) call(ctx context.Context, method, command, key string, query url.Values, body []byte) (json.RawMessage, error) {
	if s.baseURL == "" || s.token == "" {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/%s/%s", s.baseURL, command, url.PathEscape(key))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kv %s %s: %w", command, key, err)
	}
	defer resp.Body.Close()

	var out kvResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("kv %s %s: status %d: failed to decode response: %w", command, key, resp.StatusCode, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("kv %s %s: %s", command, key, out.Error)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("kv %s %s: status %d", command, key, resp.StatusCode)
	}
	return out.Result, nil
}
