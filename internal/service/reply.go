package service

import "github.com/dkmdesk/zakat_bot/internal/model"

// ReplyKind names a message the desk wants shown to the user. Transports
// turn kinds into text and keyboards.
type ReplyKind string

const (
	ReplyWelcome         ReplyKind = "welcome"
	ReplyDraftCreated    ReplyKind = "draft_created"
	ReplyNoDraft         ReplyKind = "no_draft"
	ReplyAskName         ReplyKind = "ask_name"
	ReplyNameSaved       ReplyKind = "name_saved"
	ReplyChooseZone      ReplyKind = "choose_zone"
	ReplyChooseZoneNum   ReplyKind = "choose_zone_number"
	ReplyChooseUnit      ReplyKind = "choose_unit"
	ReplyAddressSaved    ReplyKind = "address_saved"
	ReplyChoosePayment   ReplyKind = "choose_payment"
	ReplyPaymentSaved    ReplyKind = "payment_saved"
	ReplyChooseHeadcount ReplyKind = "choose_headcount"
	ReplyHeadcountSaved  ReplyKind = "headcount_saved"
	ReplyChooseExtras    ReplyKind = "choose_extras"
	ReplyAskAmount       ReplyKind = "ask_amount"
	ReplyInvalidAmount   ReplyKind = "invalid_amount"
	ReplyAmountSaved     ReplyKind = "amount_saved"
	ReplySummary         ReplyKind = "summary"
	ReplyIncomplete      ReplyKind = "incomplete"
	ReplySubmitted       ReplyKind = "submitted"
	ReplySubmitFailed    ReplyKind = "submit_failed"
	ReplyCanceled        ReplyKind = "canceled"
	ReplyUnknownCommand  ReplyKind = "unknown_command"
	ReplyAccessDenied    ReplyKind = "access_denied"
	ReplyUpstreamFailure ReplyKind = "upstream_failure"
)

// Callback acknowledgement kinds.
const (
	AckNoDraft   ReplyKind = "ack_no_draft"
	AckConfirm   ReplyKind = "ack_confirm"
	AckCancel    ReplyKind = "ack_cancel"
	AckZone      ReplyKind = "ack_zone"
	AckZoneNum   ReplyKind = "ack_zone_number"
	AckUnitPage  ReplyKind = "ack_unit_page"
	AckUnit      ReplyKind = "ack_unit"
	AckPayment   ReplyKind = "ack_payment"
	AckHeadcount ReplyKind = "ack_headcount"
	AckExtras    ReplyKind = "ack_extras"
	AckDenied    ReplyKind = "ack_denied"
	AckDefault   ReplyKind = "ack_default"
)

// Reply is an abstract response. Only the fields relevant to Kind are set.
type Reply struct {
	Kind ReplyKind

	// Edit asks the transport to replace the message the pressed button
	// belongs to instead of sending a new one.
	Edit bool

	Draft    *model.Draft
	Summary  model.Summary
	Missing  []string
	Category model.AmountCategory
	Page     int
	Row      string
	Value    string
}

// Outcome is everything produced by one update.
type Outcome struct {
	// Ack answers the callback query; nil for text messages.
	Ack     *Reply
	Replies []Reply
}

func say(r Reply) Outcome {
	return Outcome{Replies: []Reply{r}}
}

func ack(r Reply) Outcome {
	return Outcome{Ack: &r}
}
