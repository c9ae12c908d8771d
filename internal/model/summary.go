package model

import (
	"strconv"
	"strings"
)

// Summary is a point-in-time view of a draft with display fallbacks applied.
type Summary struct {
	TxID          string
	Name          string
	Address       string
	PaymentMethod string
	Headcount     string
	Maal          string
	Fidyah        string
	Infak         string
	Submitter     string
	Missing       []string
}

// Ready reports whether the summarized draft was complete.
func (s Summary) Ready() bool {
	return len(s.Missing) == 0
}

// Summary renders the draft for display. Unset strings show as "-".
func (d *Draft) Summary() Summary {
	headcount := "-"
	if d.Headcount > 0 {
		headcount = strconv.Itoa(d.Headcount)
	}
	return Summary{
		TxID:          d.TxID,
		Name:          orDash(d.Name),
		Address:       orDash(d.Address),
		PaymentMethod: orDash(d.PaymentMethod),
		Headcount:     headcount,
		Maal:          FormatRupiah(d.Maal),
		Fidyah:        FormatRupiah(d.Fidyah),
		Infak:         FormatRupiah(d.Infak),
		Submitter:     orDash(d.Submitter),
		Missing:       d.MissingFields(),
	}
}

// FormatRupiah groups thousands with dots, e.g. 25000 -> "25.000".
func FormatRupiah(n int64) string {
	if n < 0 {
		return "-" + FormatRupiah(-n)
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseAmount reads a money amount typed by the user. Every non-digit is
// dropped, so "Rp 25.000" is 25000. Empty input or overflow is rejected.
func ParseAmount(s string) (int64, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
