package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address picker bounds.
const (
	MaxZoneNumber = 24
	MaxUnitNumber = 50
	UnitsPerPage  = 10
	UnitPages     = MaxUnitNumber / UnitsPerPage
	MaxHeadcount  = 10
)

// ZoneLetters are the residential blocks offered by the address picker.
var ZoneLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

// Draft is the in-progress zakat record of a single amil.
type Draft struct {
	TxID          string `json:"txid"`
	Name          string `json:"nama"`
	Address       string `json:"alamat"`
	PaymentMethod string `json:"pembayaran"`
	Headcount     int    `json:"jiwa"`
	Maal          int64  `json:"maal"`
	Fidyah        int64  `json:"fidyah"`
	Infak         int64  `json:"infak"`
	Submitter     string `json:"amil"`

	State      ConversationState `json:"state"`
	PendingAdd AmountCategory    `json:"pendingAdd"`

	// address picker scratch
	Zone       string `json:"blok"`
	ZoneNumber int    `json:"nomorBlok"`
	UnitNumber int    `json:"nomorRumah"`
	UnitPage   int    `json:"rumahPage"`

	Version int `json:"version"`
}

// Submitter identifies the Telegram account that opens a draft.
type Submitter struct {
	Username  string
	FirstName string
}

// Label returns the snapshot stored in Draft.Submitter.
func (s Submitter) Label() string {
	if s.Username != "" {
		return "@" + s.Username
	}
	if s.FirstName != "" {
		return s.FirstName
	}
	return "Panitia"
}

// NewDraft returns an empty draft with a fresh transaction id.
func NewDraft(from Submitter, now time.Time) *Draft {
	return &Draft{
		TxID:      NewTxID(now),
		Submitter: from.Label(),
		State:     StateIdle,
		UnitPage:  1,
	}
}

// NewTxID builds an id of the form TX-<unix millis>-<6 hex chars>.
func NewTxID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("TX-%d-%s", now.UnixMilli(), suffix)
}

// MissingFields lists the required fields that are still empty, always in
// the order Nama, Alamat, Pembayaran, Jiwa.
func (d *Draft) MissingFields() []string {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "Nama")
	}
	if d.Address == "" {
		missing = append(missing, "Alamat")
	}
	if d.PaymentMethod == "" {
		missing = append(missing, "Pembayaran")
	}
	if d.Headcount <= 0 {
		missing = append(missing, "Jiwa")
	}
	return missing
}

// IsComplete reports whether the draft can be submitted. Amounts are optional.
func (d *Draft) IsComplete() bool {
	return len(d.MissingFields()) == 0
}

// SelectZone starts a new address selection at the given block letter.
func (d *Draft) SelectZone(letter string) {
	d.Zone = letter
}

// SelectZoneNumber stores the block number and rewinds the unit picker.
func (d *Draft) SelectZoneNumber(n int) {
	d.ZoneNumber = n
	d.UnitPage = 1
}

// SelectUnit stores the house number and recomputes the address.
func (d *Draft) SelectUnit(n int) {
	d.UnitNumber = n
	d.Address = fmt.Sprintf("%s%d/%d", d.Zone, d.ZoneNumber, d.UnitNumber)
}

// SetAmount stores amount into the field of the given category.
func (d *Draft) SetAmount(category AmountCategory, amount int64) {
	switch category {
	case CategoryMaal:
		d.Maal = amount
	case CategoryFidyah:
		d.Fidyah = amount
	case CategoryInfak:
		d.Infak = amount
	}
}

// Clone returns a copy safe to hand to renderers.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
