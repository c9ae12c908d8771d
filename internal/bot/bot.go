package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkmdesk/zakat_bot/internal/access"
	"github.com/dkmdesk/zakat_bot/internal/model"
	"github.com/dkmdesk/zakat_bot/internal/service"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Desk is the conversation engine behind the bot.
type Desk interface {
	HandleText(ctx context.Context, user service.User, text string) (service.Outcome, error)
	HandleSelection(ctx context.Context, user service.User, sel model.Selection) (service.Outcome, error)
}

type Bot struct {
	api      Sender
	poller   *tgbotapi.BotAPI
	desk     Desk
	allow    access.AllowList
	renderer Renderer
	logger   *slog.Logger
}

// NewBot connects to the Telegram API with token.
func NewBot(token string, desk Desk, allow access.AllowList, renderer Renderer, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	b := New(api, desk, allow, renderer, logger)
	b.poller = api
	return b, nil
}

// New builds a bot around an existing sender.
func New(api Sender, desk Desk, allow access.AllowList, renderer Renderer, logger *slog.Logger) *Bot {
	if renderer == nil {
		renderer = NewRenderer("plain")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:      api,
		desk:     desk,
		allow:    allow,
		renderer: renderer,
		logger:   logger,
	}
}

// Start runs the bot in long polling mode until ctx is done. Only bots
// created with NewBot can poll.
func (b *Bot) Start(ctx context.Context) error {
	if b.poller == nil {
		return errors.New("bot has no telegram client to poll with")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.poller.GetUpdatesChan(u)
	defer b.poller.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				// logged, polling continues
				b.logger.Error("error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

// HandleWebhook decodes a webhook body and handles the update in it.
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	return b.HandleUpdate(ctx, update)
}

// HandleUpdate dispatches a message or callback query. Users get a reply
// even when it fails; the error is returned for logging only.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil || message.Chat == nil {
		return nil
	}
	chatID := message.Chat.ID
	user := userFrom(message.From)

	if !b.allow.Allowed(user.ID) {
		b.logger.Warn("access denied", "user_id", user.ID)
		return b.deliver(chatID, 0, service.Reply{Kind: service.ReplyAccessDenied})
	}

	out, err := b.desk.HandleText(ctx, user, message.Text)
	if err != nil {
		return errors.Join(
			fmt.Errorf("handle text from %d: %w", user.ID, err),
			b.deliver(chatID, 0, service.Reply{Kind: service.ReplyUpstreamFailure}),
		)
	}
	return b.deliverAll(chatID, 0, out.Replies)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.From == nil || callback.Message == nil || callback.Message.Chat == nil {
		return b.answer(callback.ID, service.Reply{Kind: service.AckDefault})
	}
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	user := userFrom(callback.From)

	if !b.allow.Allowed(user.ID) {
		b.logger.Warn("access denied", "user_id", user.ID)
		return b.answer(callback.ID, service.Reply{Kind: service.AckDenied})
	}

	sel, err := DecodeCallback(callback.Data)
	if err != nil {
		b.logger.Debug("unknown callback", "user_id", user.ID, "data", callback.Data)
		sel = model.UnknownSelection{Data: callback.Data}
	}

	out, err := b.desk.HandleSelection(ctx, user, sel)
	if err != nil {
		return errors.Join(
			fmt.Errorf("handle callback %q from %d: %w", callback.Data, user.ID, err),
			b.answer(callback.ID, service.Reply{Kind: service.ReplyUpstreamFailure}),
			b.deliver(chatID, 0, service.Reply{Kind: service.ReplyUpstreamFailure}),
		)
	}

	// answer first to stop the button spinner
	var ackErr error
	if out.Ack != nil {
		ackErr = b.answer(callback.ID, *out.Ack)
	}
	return errors.Join(ackErr, b.deliverAll(chatID, messageID, out.Replies))
}

func (b *Bot) deliverAll(chatID int64, messageID int, replies []service.Reply) error {
	var errs []error
	for _, r := range replies {
		errs = append(errs, b.deliver(chatID, messageID, r))
	}
	return errors.Join(errs...)
}

// deliver sends r, or edits messageID in place when r asks for it.
func (b *Bot) deliver(chatID int64, messageID int, r service.Reply) error {
	msg := b.renderer.Render(r)

	var c tgbotapi.Chattable
	if r.Edit && messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, msg.Text)
		edit.ParseMode = msg.ParseMode
		edit.ReplyMarkup = msg.Inline
		c = edit
	} else {
		send := tgbotapi.NewMessage(chatID, msg.Text)
		send.ParseMode = msg.ParseMode
		switch {
		case msg.Inline != nil:
			send.ReplyMarkup = *msg.Inline
		case msg.Menu != nil:
			send.ReplyMarkup = *msg.Menu
		}
		c = send
	}

	if _, err := b.api.Send(c); err != nil {
		return fmt.Errorf("send %s to %d: %w", r.Kind, chatID, err)
	}
	return nil
}

func (b *Bot) answer(callbackID string, r service.Reply) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, b.renderer.AckText(r))); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

func userFrom(u *tgbotapi.User) service.User {
	return service.User{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
	}
}
