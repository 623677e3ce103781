package analytics

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes formatted amounts (South African rand).
const CurrencySymbol = "R"

var printer = message.NewPrinter(language.English)

// FormatCurrency renders amount as rand with thousands grouping and two
// decimals, e.g. R1,234.50 or -R12.00.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	// Round half away from zero on cents before printing.
	amount = math.Round(amount*100) / 100
	return sign + CurrencySymbol + printer.Sprintf("%.2f", amount)
}

// FormatDate renders t as "15 Oct 2026".
func FormatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}
