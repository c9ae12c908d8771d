package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Nama"),
			tgbotapi.NewKeyboardButton("Alamat"),
			tgbotapi.NewKeyboardButton("Pembayaran"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Jiwa"),
			tgbotapi.NewKeyboardButton("Tambahan"),
			tgbotapi.NewKeyboardButton("Lihat"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("OK"),
			tgbotapi.NewKeyboardButton("Cancel"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func zoneKeyboard() tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, letter := range model.ZoneLetters {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(letter, callbackData(tagZone, letter)))
	}
	// A–E on the first row, F–I on the second
	return tgbotapi.NewInlineKeyboardMarkup(chunk(buttons, 5)...)
}

func zoneNumberKeyboard() tgbotapi.InlineKeyboardMarkup {
	return numberKeyboard(tagZoneNumber, 1, model.MaxZoneNumber, 6)
}

func headcountKeyboard() tgbotapi.InlineKeyboardMarkup {
	return numberKeyboard(tagHeadcount, 1, model.MaxHeadcount, 5)
}

// unitKeyboard shows one page of house numbers with prev/next navigation.
func unitKeyboard(page int) tgbotapi.InlineKeyboardMarkup {
	if page < 1 {
		page = 1
	}
	if page > model.UnitPages {
		page = model.UnitPages
	}
	start := (page-1)*model.UnitsPerPage + 1
	end := min(start+model.UnitsPerPage-1, model.MaxUnitNumber)

	rows := numberKeyboard(tagUnit, start, end, 5).InlineKeyboard

	var nav []tgbotapi.InlineKeyboardButton
	if page > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅ Prev", callbackData(tagUnitPage, page-1)))
	}
	if page < model.UnitPages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ➡", callbackData(tagUnitPage, page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func paymentKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range model.PaymentMethods {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(m.Label(), callbackData(tagPayment, m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func extrasKeyboard() tgbotapi.InlineKeyboardMarkup {
	labels := map[model.AmountCategory]string{
		model.CategoryMaal:   "Maal",
		model.CategoryFidyah: "Fidyah",
		model.CategoryInfak:  "Infak",
	}
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range model.AmountCategories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(labels[c], callbackData(tagExtras, c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("OK Simpan", callbackData(tagAction, model.ActionConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", callbackData(tagAction, model.ActionCancel)),
		),
	)
}

func numberKeyboard(tag string, from, to, perRow int) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for n := from; n <= to; n++ {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(n), callbackData(tag, n)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(chunk(buttons, perRow)...)
}

func chunk(buttons []tgbotapi.InlineKeyboardButton, size int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > size {
		rows = append(rows, buttons[:size:size])
		buttons = buttons[size:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return rows
}
