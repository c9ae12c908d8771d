// Package app wires configuration into a ready-to-run bot.
package app

import (
	"fmt"
	"log/slog"

	"github.com/dkmdesk/zakat_bot/internal/bot"
	"github.com/dkmdesk/zakat_bot/internal/config"
	"github.com/dkmdesk/zakat_bot/internal/repository"
	"github.com/dkmdesk/zakat_bot/internal/service"
	"github.com/dkmdesk/zakat_bot/internal/sheets"
)

// Desk builds the conversation engine on the configured draft store.
// The returned func closes the store.
func Desk(cfg config.Config, logger *slog.Logger) (*service.ZakatDesk, func() error, error) {
	store, closeStore, err := repository.Open(cfg.StoreOptions(), logger.With("component", "store"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open draft store: %w", err)
	}
	if cfg.AppsScriptURL == "" {
		logger.Warn("APPS_SCRIPT_URL is empty, submissions will fail")
	}
	gateway := sheets.NewClient(cfg.AppsScriptURL, cfg.AppsAPIKey, cfg.SubmitTimeout())
	desk := service.NewZakatDesk(store, gateway, logger.With("component", "desk"), repository.DraftTTL)
	return desk, closeStore, nil
}

// Bot validates cfg and connects a bot to Telegram.
func Bot(cfg config.Config, logger *slog.Logger) (*bot.Bot, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	allow, invalid := cfg.AllowedUserIDs()
	if len(invalid) > 0 {
		logger.Warn("ignoring invalid ALLOWED_USER_IDS entries", "entries", invalid)
	}
	if allow.Len() == 0 && len(invalid) == 0 {
		logger.Warn("ALLOWED_USER_IDS is empty, every user is allowed")
	}

	desk, closeStore, err := Desk(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	b, err := bot.NewBot(cfg.TelegramToken, desk, allow, bot.NewRenderer(cfg.RenderMode), logger.With("component", "bot"))
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	logger.Info("bot ready", "store", cfg.DraftStore, "render_mode", cfg.RenderMode, "allowed_users", allow.Len())
	return b, closeStore, nil
}
