// Package sheets forwards finished drafts to the Google Apps Script web app
// that appends them to the collection spreadsheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

var (
	ErrNotConfigured = errors.New("submission endpoint is not configured")
	ErrRejected      = errors.New("submission was not accepted")
)

// Payload is the fixed body expected by the Apps Script endpoint.
type Payload struct {
	APIKey        string `json:"api_key"`
	TxID          string `json:"txid"`
	Name          string `json:"nama"`
	Address       string `json:"alamat"`
	PaymentMethod string `json:"pembayaran"`
	Headcount     int    `json:"jiwa"`
	Maal          int64  `json:"maal"`
	Fidyah        int64  `json:"fidyah"`
	Infak         int64  `json:"infak"`
	Submitter     string `json:"amil"`
}

type result struct {
	OK  bool            `json:"ok"`
	Row json.RawMessage `json:"row"`
}

// Client posts drafts to the spreadsheet service.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client. Apps Script answers POSTs with a redirect to
// the script output; the default http.Client follows it.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewPayload copies the draft fields into the submission body.
func NewPayload(apiKey string, d *model.Draft) Payload {
	return Payload{
		APIKey:        apiKey,
		TxID:          d.TxID,
		Name:          d.Name,
		Address:       d.Address,
		PaymentMethod: d.PaymentMethod,
		Headcount:     d.Headcount,
		Maal:          d.Maal,
		Fidyah:        d.Fidyah,
		Infak:         d.Infak,
		Submitter:     d.Submitter,
	}
}

// Submit appends the draft to the sheet and returns the row locator reported
// by the script. Any response other than {"ok": true} is an error.
func (c *Client) Submit(ctx context.Context, d *model.Draft) (string, error) {
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(NewPayload(c.apiKey, d))
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request to submission endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read submission response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var out result
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrRejected, err)
	}
	if !out.OK {
		return "", fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(string(raw)))
	}
	return rowLocator(out.Row), nil
}

func rowLocator(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "-"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
