package dashboard

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencyThreshold separates card values shown as money from plain counts.
const currencyThreshold = 100

var printer = message.NewPrinter(language.AmericanEnglish)

// CardValue formats a card value: USD currency above the threshold, a
// grouped decimal otherwise.
func CardValue(v float64) string {
	if v > currencyThreshold {
		return Currency(v)
	}
	return Decimal(v)
}

// Currency renders v as US dollars with two decimals and thousands
// separators.
func Currency(v float64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", math.Abs(v))
	}
	return "$" + printer.Sprintf("%.2f", v)
}

// Decimal renders v with thousands separators and at most three fraction
// digits.
func Decimal(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Amount renders a dollar amount in the loose decimal form used by the
// buyers list and income summary.
func Amount(v float64) string {
	if v < 0 {
		return "-$" + Decimal(math.Abs(v))
	}
	return "$" + Decimal(v)
}

// InvoiceAmount renders a fixed two-decimal dollar amount without grouping.
func InvoiceAmount(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// BuyerStatusClass maps a buyer status to its text colour class.
func BuyerStatusClass(status string) string {
	switch status {
	case "Paid":
		return "text-green-600"
	case "Due":
		return "text-red-500"
	default:
		return "text-yellow-500"
	}
}

// InvoiceStatusClass maps an invoice status to its text colour class.
func InvoiceStatusClass(status string) string {
	switch status {
	case "Paid":
		return "text-green-600"
	case "Due":
		return "text-red-500"
	default:
		return "text-yellow-600"
	}
}
