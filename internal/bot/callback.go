package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// Callback data tags. Telegram limits callback data to 64 bytes, so the
// tags are short.
const (
	tagZone       = "blk"
	tagZoneNumber = "nb"
	tagUnit       = "nr"
	tagUnitPage   = "nrp"
	tagPayment    = "pay"
	tagHeadcount  = "jw"
	tagExtras     = "add"
	tagAction     = "do"
)

var ErrUnknownCallback = errors.New("unknown callback data")

// DecodeCallback turns raw callback data into a typed selection. Values
// outside the ranges offered by the keyboards are rejected.
func DecodeCallback(data string) (model.Selection, error) {
	tag, value, ok := strings.Cut(data, ":")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
	}

	switch tag {
	case tagZone:
		for _, letter := range model.ZoneLetters {
			if value == letter {
				return model.ZoneSelected{Letter: letter}, nil
			}
		}
	case tagZoneNumber:
		if n, ok := intIn(value, 1, model.MaxZoneNumber); ok {
			return model.ZoneNumberSelected{Number: n}, nil
		}
	case tagUnit:
		if n, ok := intIn(value, 1, model.MaxUnitNumber); ok {
			return model.UnitSelected{Number: n}, nil
		}
	case tagUnitPage:
		if n, ok := intIn(value, 1, model.UnitPages); ok {
			return model.UnitPageSelected{Page: n}, nil
		}
	case tagPayment:
		if m := model.PaymentMethod(value); m.Valid() {
			return model.PaymentSelected{Method: m}, nil
		}
	case tagHeadcount:
		if n, ok := intIn(value, 1, model.MaxHeadcount); ok {
			return model.HeadcountSelected{Count: n}, nil
		}
	case tagExtras:
		if c := model.AmountCategory(value); c.Valid() {
			return model.ExtrasSelected{Category: c}, nil
		}
	case tagAction:
		switch a := model.Action(value); a {
		case model.ActionConfirm, model.ActionCancel:
			return model.ActionSelected{Action: a}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, data)
}

func callbackData(tag string, value any) string {
	return fmt.Sprintf("%s:%v", tag, value)
}

func intIn(s string, lo, hi int) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}
