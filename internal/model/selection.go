package model

// Selection is a decoded inline-button press. The set of implementations is
// closed; transports convert raw callback payloads into one of them.
type Selection interface {
	selection()
}

// Action is a control button attached to the draft summary.
type Action string

const (
	ActionConfirm Action = "ok"
	ActionCancel  Action = "cancel"
)

type ZoneSelected struct{ Letter string }

type ZoneNumberSelected struct{ Number int }

type UnitSelected struct{ Number int }

type UnitPageSelected struct{ Page int }

type PaymentSelected struct{ Method PaymentMethod }

type HeadcountSelected struct{ Count int }

type ExtrasSelected struct{ Category AmountCategory }

type ActionSelected struct{ Action Action }

// UnknownSelection carries callback data no button produces, such as a
// payload from an older keyboard layout.
type UnknownSelection struct{ Data string }

func (ZoneSelected) selection()       {}
func (ZoneNumberSelected) selection() {}
func (UnitSelected) selection()       {}
func (UnitPageSelected) selection()   {}
func (PaymentSelected) selection()    {}
func (HeadcountSelected) selection()  {}
func (ExtrasSelected) selection()     {}
func (ActionSelected) selection()     {}
func (UnknownSelection) selection()   {}
