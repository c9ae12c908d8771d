package bot

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// SecretHeader carries the secret_token registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateSize = 1 << 20

// UpdateHandler handles one raw webhook body.
type UpdateHandler interface {
	HandleWebhook(ctx context.Context, body []byte) error
}

// WebhookHandler receives Telegram webhook calls. Once the caller is
// authenticated and the body parses, it always answers 200 so Telegram does
// not redeliver updates that failed inside the bot.
type WebhookHandler struct {
	updates UpdateHandler
	secret  string
	logger  *slog.Logger
}

func NewWebhookHandler(updates UpdateHandler, secret string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{updates: updates, secret: secret, logger: logger}
}

// Routes mounts the webhook at /api/telegram plus a /health check.
func (h *WebhookHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/api/telegram", h)
	return r
}

// ServeHTTP implements the http.Handler interface.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateSize))
	if err != nil {
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return
	}

	requestID := middleware.GetReqID(r.Context())
	status, text := h.process(r.Context(), requestID, r.Method, r.Header.Get(SecretHeader), body)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

// Process is the transport-neutral entry used by serverless runtimes.
func (h *WebhookHandler) Process(ctx context.Context, method, secret string, body []byte) (int, string) {
	return h.process(ctx, "", method, secret, body)
}

func (h *WebhookHandler) process(ctx context.Context, requestID, method, secret string, body []byte) (int, string) {
	if method != http.MethodPost {
		// liveness check
		return http.StatusOK, "ok"
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := h.logger.With("request_id", requestID)

	if h.secret != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		logger.Warn("webhook rejected: bad secret")
		return http.StatusUnauthorized, "unauthorized"
	}
	if !json.Valid(body) {
		logger.Warn("webhook rejected: malformed body", "size", len(body))
		return http.StatusBadRequest, "bad request"
	}

	start := time.Now()
	if err := h.updates.HandleWebhook(ctx, body); err != nil {
		logger.Error("update failed", "error", err, "duration", time.Since(start))
	} else {
		logger.Debug("update handled", "duration", time.Since(start))
	}
	return http.StatusOK, "ok"
}
