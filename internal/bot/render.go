package bot

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkmdesk/zakat_bot/internal/service"
)

// Message is a rendered reply ready to be sent.
type Message struct {
	Text      string
	ParseMode string
	Inline    *tgbotapi.InlineKeyboardMarkup
	Menu      *tgbotapi.ReplyKeyboardMarkup
}

// Renderer turns abstract replies into Telegram messages.
type Renderer interface {
	Render(r service.Reply) Message
	AckText(r service.Reply) string
}

// textRenderer is shared by the plain and HTML variants; only the way
// labels and user input are decorated differs.
type textRenderer struct {
	parseMode string
	bold      func(string) string
	escape    func(string) string
}

// NewRenderer returns the renderer for mode "plain" (default) or "html".
func NewRenderer(mode string) Renderer {
	if strings.EqualFold(mode, "html") {
		return &textRenderer{
			parseMode: tgbotapi.ModeHTML,
			bold:      func(s string) string { return "<b>" + s + "</b>" },
			escape:    html.EscapeString,
		}
	}
	identity := func(s string) string { return s }
	return &textRenderer{bold: identity, escape: identity}
}

func (t *textRenderer) Render(r service.Reply) Message {
	switch r.Kind {
	case service.ReplyWelcome:
		return t.menu(t.bold("DKM Zakat Desk") + " siap dipakai.\nMulai transaksi baru: /input")
	case service.ReplyDraftCreated:
		return t.menu(fmt.Sprintf("Draft baru dibuat.\nTxID: %s\n\nIsi nama: /nama", t.bold(t.escape(r.Draft.TxID))))
	case service.ReplyNoDraft:
		return t.menu("Belum ada draft. Ketik /input untuk mulai.")
	case service.ReplyAskName:
		return t.menu("Ketik nama muzaki:")
	case service.ReplyNameSaved:
		return t.menu(fmt.Sprintf("Nama tersimpan: %s\nLanjut: /alamat", t.bold(t.escape(r.Draft.Name))))
	case service.ReplyChooseZone:
		return t.inline("Pilih Blok (A–I):", zoneKeyboard())
	case service.ReplyChooseZoneNum:
		return t.inline("Pilih nomor blok (1–24):", zoneNumberKeyboard())
	case service.ReplyChooseUnit:
		return t.inline("Pilih nomor rumah (1–50):", unitKeyboard(r.Page))
	case service.ReplyAddressSaved:
		return t.menu(fmt.Sprintf("Alamat tersimpan: %s\nLanjut: /pembayaran", t.bold(t.escape(r.Draft.Address))))
	case service.ReplyChoosePayment:
		return t.inline("Pilih pembayaran zakat fitrah:", paymentKeyboard())
	case service.ReplyPaymentSaved:
		return t.menu(fmt.Sprintf("Pembayaran: %s\nLanjut: /jiwa", t.bold(t.escape(r.Draft.PaymentMethod))))
	case service.ReplyChooseHeadcount:
		return t.inline("Pilih jumlah jiwa:", headcountKeyboard())
	case service.ReplyHeadcountSaved:
		return t.menu(fmt.Sprintf("Jiwa tersimpan: %s\nOpsional: /tambahan\nCek: /lihat", t.bold(fmt.Sprint(r.Draft.Headcount))))
	case service.ReplyChooseExtras:
		return t.inline("Pilih jenis tambahan:", extrasKeyboard())
	case service.ReplyAskAmount:
		return t.menu(fmt.Sprintf("Ketik nominal %s (angka saja, contoh 25000):", r.Category.Label()))
	case service.ReplyInvalidAmount:
		return Message{Text: "Nominal harus angka. Contoh: 25000", ParseMode: t.parseMode}
	case service.ReplyAmountSaved:
		return t.menu("Tersimpan. Cek: /lihat")
	case service.ReplySummary:
		return t.inline(t.summary(r), confirmKeyboard())
	case service.ReplyIncomplete:
		return t.menu(fmt.Sprintf("Belum bisa simpan. Yang belum diisi: %s\nCek: /lihat", strings.Join(r.Missing, ", ")))
	case service.ReplySubmitted:
		return t.menu(fmt.Sprintf("Tersimpan ✅\nBaris: %s\n\nTransaksi baru: /input", t.escape(r.Row)))
	case service.ReplySubmitFailed:
		return t.menu("Gagal simpan ke sheet. Coba /ok lagi.")
	case service.ReplyCanceled:
		return t.menu("Draft dibatalkan. Mulai lagi: /input")
	case service.ReplyAccessDenied:
		return Message{Text: "Maaf, akun ini belum terdaftar sebagai panitia.", ParseMode: t.parseMode}
	case service.ReplyUpstreamFailure:
		return t.menu("Sedang ada gangguan. Coba lagi sebentar.")
	}
	return t.menu("Perintah tidak dikenali. Mulai: /input")
}

func (t *textRenderer) AckText(r service.Reply) string {
	switch r.Kind {
	case service.AckNoDraft:
		return "Draft tidak ada. /input dulu."
	case service.AckCancel:
		return "Cancel"
	case service.AckZone:
		return "Blok " + r.Value
	case service.AckZoneNum:
		return "No Blok " + r.Value
	case service.AckUnitPage:
		return "Hal " + r.Value
	case service.AckUnit:
		return "Rumah " + r.Value
	case service.AckHeadcount:
		return "Jiwa " + r.Value
	case service.AckPayment, service.AckExtras:
		return r.Value
	case service.AckDenied:
		return "Akses ditolak."
	case service.ReplyUpstreamFailure:
		return "Gangguan, coba lagi."
	}
	return "OK"
}

func (t *textRenderer) summary(r service.Reply) string {
	s := r.Summary
	lines := []string{
		t.bold("Ringkasan Draft"),
		"Nama: " + t.escape(s.Name),
		"Alamat: " + t.escape(s.Address),
		"Pembayaran: " + t.escape(s.PaymentMethod),
		"Jiwa: " + s.Headcount,
		"Maal: " + s.Maal,
		"Fidyah: " + s.Fidyah,
		"Infak: " + s.Infak,
		"Amil: " + t.escape(s.Submitter),
	}
	if s.Ready() {
		lines = append(lines, "Status: "+t.bold("SIAP DISIMPAN"))
	} else {
		lines = append(lines, fmt.Sprintf("Status: %s (%s)", t.bold("BELUM LENGKAP"), strings.Join(s.Missing, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (t *textRenderer) menu(text string) Message {
	keyboard := mainMenuKeyboard()
	return Message{Text: text, ParseMode: t.parseMode, Menu: &keyboard}
}

func (t *textRenderer) inline(text string, keyboard tgbotapi.InlineKeyboardMarkup) Message {
	return Message{Text: text, ParseMode: t.parseMode, Inline: &keyboard}
}
