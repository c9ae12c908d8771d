package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// DraftStore is the subset of repository.DraftStore the desk needs.
type DraftStore interface {
	Get(ctx context.Context, userID int64) (*model.Draft, error)
	Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error
	Delete(ctx context.Context, userID int64) error
}

// Submitter forwards a complete draft to the spreadsheet and returns the row locator.
type Submitter interface {
	Submit(ctx context.Context, draft *model.Draft) (string, error)
}

// User is the Telegram account an update came from.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

func (u User) submitter() model.Submitter {
	return model.Submitter{Username: u.Username, FirstName: u.FirstName}
}

// ZakatDesk is the conversation engine. It is safe for concurrent use;
// updates of the same user are handled one at a time.
type ZakatDesk struct {
	store  DraftStore
	sheets Submitter
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time
	locks  *userLocks
}

// NewZakatDesk wires the engine to its collaborators.
func NewZakatDesk(store DraftStore, sheets Submitter, logger *slog.Logger, ttl time.Duration) *ZakatDesk {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZakatDesk{
		store:  store,
		sheets: sheets,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
		locks:  newUserLocks(),
	}
}

// HandleText processes a typed message or reply-keyboard press.
func (z *ZakatDesk) HandleText(ctx context.Context, user User, text string) (Outcome, error) {
	unlock := z.locks.Lock(user.ID)
	defer unlock()

	raw := strings.TrimSpace(text)
	cmd, isCmd := ParseCommand(raw)

	switch {
	case isCmd && cmd == CmdStart:
		return say(Reply{Kind: ReplyWelcome}), nil
	case isCmd && cmd == CmdInput:
		return z.begin(ctx, user)
	}

	draft, err := z.store.Get(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil {
		return say(Reply{Kind: ReplyNoDraft}), nil
	}

	// confirm and cancel win over pending free-text input, as their buttons do
	if isCmd && (cmd == CmdConfirm || cmd == CmdCancel) {
		return z.runCommand(ctx, user, draft, cmd)
	}

	switch draft.State {
	case model.StateAwaitingName:
		draft.Name = raw
		draft.State = model.StateIdle
		if err := z.save(ctx, user, draft); err != nil {
			return Outcome{}, err
		}
		return say(Reply{Kind: ReplyNameSaved, Draft: draft.Clone()}), nil

	case model.StateAwaitingAmount:
		return z.receiveAmount(ctx, user, draft, raw)
	}

	if !isCmd {
		return say(Reply{Kind: ReplyUnknownCommand}), nil
	}
	return z.runCommand(ctx, user, draft, cmd)
}

// HandleSelection processes a decoded inline-button press.
func (z *ZakatDesk) HandleSelection(ctx context.Context, user User, sel model.Selection) (Outcome, error) {
	unlock := z.locks.Lock(user.ID)
	defer unlock()

	draft, err := z.store.Get(ctx, user.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil {
		return ack(Reply{Kind: AckNoDraft}), nil
	}

	var (
		ackReply Reply
		reply    Reply
	)
	switch s := sel.(type) {
	case model.ActionSelected:
		return z.runAction(ctx, user, draft, s.Action)

	case model.ZoneSelected:
		draft.SelectZone(s.Letter)
		ackReply = Reply{Kind: AckZone, Value: s.Letter}
		reply = Reply{Kind: ReplyChooseZoneNum}

	case model.ZoneNumberSelected:
		draft.SelectZoneNumber(s.Number)
		ackReply = Reply{Kind: AckZoneNum, Value: strconv.Itoa(s.Number)}
		reply = Reply{Kind: ReplyChooseUnit, Page: draft.UnitPage}

	case model.UnitPageSelected:
		draft.UnitPage = s.Page
		ackReply = Reply{Kind: AckUnitPage, Value: strconv.Itoa(s.Page), Page: s.Page}
		reply = Reply{Kind: ReplyChooseUnit, Page: s.Page, Edit: true}

	case model.UnitSelected:
		draft.SelectUnit(s.Number)
		ackReply = Reply{Kind: AckUnit, Value: strconv.Itoa(s.Number)}
		reply = Reply{Kind: ReplyAddressSaved}

	case model.PaymentSelected:
		draft.PaymentMethod = s.Method.Label()
		ackReply = Reply{Kind: AckPayment, Value: draft.PaymentMethod}
		reply = Reply{Kind: ReplyPaymentSaved}

	case model.HeadcountSelected:
		draft.Headcount = s.Count
		ackReply = Reply{Kind: AckHeadcount, Value: strconv.Itoa(s.Count)}
		reply = Reply{Kind: ReplyHeadcountSaved}

	case model.ExtrasSelected:
		draft.PendingAdd = s.Category
		draft.State = model.StateAwaitingAmount
		ackReply = Reply{Kind: AckExtras, Category: s.Category, Value: s.Category.Label()}
		reply = Reply{Kind: ReplyAskAmount, Category: s.Category}

	default:
		return ack(Reply{Kind: AckDefault}), nil
	}

	if err := z.save(ctx, user, draft); err != nil {
		return Outcome{}, err
	}
	reply.Draft = draft.Clone()
	return Outcome{Ack: &ackReply, Replies: []Reply{reply}}, nil
}

func (z *ZakatDesk) runAction(ctx context.Context, user User, draft *model.Draft, action model.Action) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch action {
	case model.ActionConfirm:
		out, err = z.confirm(ctx, user, draft)
		out.Ack = &Reply{Kind: AckConfirm}
	case model.ActionCancel:
		out, err = z.cancel(ctx, user)
		out.Ack = &Reply{Kind: AckCancel}
	default:
		return ack(Reply{Kind: AckDefault}), nil
	}
	if err != nil {
		return Outcome{Ack: out.Ack}, err
	}
	return out, nil
}

func (z *ZakatDesk) runCommand(ctx context.Context, user User, draft *model.Draft, cmd Command) (Outcome, error) {
	switch cmd {
	case CmdName:
		draft.State = model.StateAwaitingName
		if err := z.save(ctx, user, draft); err != nil {
			return Outcome{}, err
		}
		return say(Reply{Kind: ReplyAskName}), nil

	case CmdAddress:
		draft.UnitPage = 1
		if err := z.save(ctx, user, draft); err != nil {
			return Outcome{}, err
		}
		return say(Reply{Kind: ReplyChooseZone}), nil

	case CmdPayment:
		return say(Reply{Kind: ReplyChoosePayment}), nil

	case CmdHeadcount:
		return say(Reply{Kind: ReplyChooseHeadcount}), nil

	case CmdExtras:
		return say(Reply{Kind: ReplyChooseExtras}), nil

	case CmdSummary:
		return say(Reply{Kind: ReplySummary, Summary: draft.Summary(), Draft: draft.Clone()}), nil

	case CmdConfirm:
		return z.confirm(ctx, user, draft)

	case CmdCancel:
		return z.cancel(ctx, user)
	}
	return say(Reply{Kind: ReplyUnknownCommand}), nil
}

func (z *ZakatDesk) begin(ctx context.Context, user User) (Outcome, error) {
	draft := model.NewDraft(user.submitter(), z.now())
	if err := z.save(ctx, user, draft); err != nil {
		return Outcome{}, err
	}
	z.logger.Info("draft created", "user_id", user.ID, "txid", draft.TxID)
	return say(Reply{Kind: ReplyDraftCreated, Draft: draft.Clone()}), nil
}

func (z *ZakatDesk) receiveAmount(ctx context.Context, user User, draft *model.Draft, raw string) (Outcome, error) {
	amount, ok := model.ParseAmount(raw)
	if !ok {
		return say(Reply{Kind: ReplyInvalidAmount, Category: draft.PendingAdd}), nil
	}

	category := draft.PendingAdd
	draft.SetAmount(category, amount)
	draft.PendingAdd = ""
	draft.State = model.StateIdle
	if err := z.save(ctx, user, draft); err != nil {
		return Outcome{}, err
	}
	return say(Reply{Kind: ReplyAmountSaved, Category: category, Draft: draft.Clone()}), nil
}

func (z *ZakatDesk) confirm(ctx context.Context, user User, draft *model.Draft) (Outcome, error) {
	if missing := draft.MissingFields(); len(missing) > 0 {
		return say(Reply{Kind: ReplyIncomplete, Missing: missing}), nil
	}

	row, err := z.sheets.Submit(ctx, draft)
	if err != nil {
		z.logger.Error("submission failed", "user_id", user.ID, "txid", draft.TxID, "error", err)
		return say(Reply{Kind: ReplySubmitFailed}), nil
	}
	z.logger.Info("draft submitted", "user_id", user.ID, "txid", draft.TxID, "row", row)

	// The row is already in the sheet. A failed delete leaves a draft that
	// expires on its own, so the user is still told it was saved.
	if err := z.store.Delete(ctx, user.ID); err != nil {
		z.logger.Warn("failed to delete submitted draft", "user_id", user.ID, "txid", draft.TxID, "error", err)
	}
	return say(Reply{Kind: ReplySubmitted, Row: row, Draft: draft.Clone()}), nil
}

func (z *ZakatDesk) cancel(ctx context.Context, user User) (Outcome, error) {
	if err := z.store.Delete(ctx, user.ID); err != nil {
		return Outcome{}, fmt.Errorf("failed to delete draft: %w", err)
	}
	return say(Reply{Kind: ReplyCanceled}), nil
}

func (z *ZakatDesk) save(ctx context.Context, user User, draft *model.Draft) error {
	draft.Version++
	if err := z.store.Put(ctx, user.ID, draft, z.ttl); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}
