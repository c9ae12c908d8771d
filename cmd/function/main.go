// Command function is the serverless entry point. The platform calls
// Handler with each webhook request routed through the API gateway.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/dkmdesk/zakat_bot/internal/app"
	"github.com/dkmdesk/zakat_bot/internal/bot"
	"github.com/dkmdesk/zakat_bot/internal/config"
)

// Request is an API gateway event.
type Request struct {
	HTTPMethod      string            `json:"httpMethod"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Response is returned to the API gateway.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

var (
	initMu  sync.Mutex
	webhook *bot.WebhookHandler
	build   = buildWebhook
)

func buildWebhook() (*bot.WebhookHandler, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	b, _, err := app.Bot(cfg, logger)
	if err != nil {
		return nil, err
	}
	return bot.NewWebhookHandler(b, cfg.WebhookSecret, logger.With("component", "webhook")), nil
}

// setup builds the handler once per warm instance so the store client and
// the Telegram connection are reused across invocations. A failed build is
// not kept; the next request tries again.
func setup() (*bot.WebhookHandler, error) {
	initMu.Lock()
	defer initMu.Unlock()
	if webhook != nil {
		return webhook, nil
	}
	h, err := build()
	if err != nil {
		return nil, err
	}
	webhook = h
	return h, nil
}

// unavailable stands in for the bot while it cannot start. Updates still
// pass the secret check and are answered 200 so Telegram does not queue
// redeliveries.
type unavailable struct {
	err error
}

func (u unavailable) HandleWebhook(ctx context.Context, body []byte) error {
	return fmt.Errorf("bot unavailable: %w", u.err)
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	if method := requestMethod(request); method != http.MethodPost {
		return textResponse(http.StatusOK, "ok"), nil
	}
	h, err := setup()
	if err != nil {
		slog.Error("function init failed", "error", err)
		h = bot.NewWebhookHandler(unavailable{err: err}, os.Getenv("WEBHOOK_SECRET"), slog.Default())
	}
	return handle(ctx, h, request), nil
}

func requestMethod(request Request) string {
	if request.HTTPMethod == "" {
		return http.MethodPost
	}
	return strings.ToUpper(request.HTTPMethod)
}

func handle(ctx context.Context, h *bot.WebhookHandler, request Request) *Response {
	method := requestMethod(request)

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return textResponse(http.StatusBadRequest, "bad request")
		}
		body = decoded
	}

	status, text := h.Process(ctx, method, header(request.Headers, bot.SecretHeader), body)
	return textResponse(status, text)
}

// header looks name up case-insensitively; gateways differ in how they
// normalize header names.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func textResponse(status int, body string) *Response {
	return &Response{
		StatusCode: status,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
		},
	}
}

func main() {
	// Entry point for local testing
}
