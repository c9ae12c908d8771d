package model

// ConversationState is the step of the menu flow a draft is in.
type ConversationState string

const (
	StateIdle           ConversationState = "IDLE"
	StateAwaitingName   ConversationState = "WAIT_NAME"
	StateAwaitingAmount ConversationState = "WAIT_ADD_AMOUNT"
)

// AmountCategory is one of the optional money fields collected via "Tambahan".
type AmountCategory string

const (
	CategoryMaal   AmountCategory = "MAAL"
	CategoryFidyah AmountCategory = "FIDYAH"
	CategoryInfak  AmountCategory = "INFAK"
)

// AmountCategories in menu order.
var AmountCategories = []AmountCategory{CategoryMaal, CategoryFidyah, CategoryInfak}

// Label is the human name of the category.
func (c AmountCategory) Label() string {
	switch c {
	case CategoryMaal:
		return "Zakat Mal"
	case CategoryFidyah:
		return "Fidyah"
	case CategoryInfak:
		return "Infak"
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c AmountCategory) Valid() bool {
	switch c {
	case CategoryMaal, CategoryFidyah, CategoryInfak:
		return true
	}
	return false
}

// PaymentMethod is the code of a zakat-fitrah payment option.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "UANG"
	PaymentRiceLitres PaymentMethod = "LTR"
	PaymentRiceKilos  PaymentMethod = "KG"
)

// PaymentMethods in menu order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentRiceLitres, PaymentRiceKilos}

// Label is the canonical string stored in Draft.PaymentMethod.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Uang"
	case PaymentRiceLitres:
		return "Beras (Ltr)"
	case PaymentRiceKilos:
		return "Beras (Kg)"
	}
	return string(p)
}

// Valid reports whether p is a known payment code.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentRiceLitres, PaymentRiceKilos:
		return true
	}
	return false
}
