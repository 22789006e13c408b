package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a display label for an amount. No conversion is ever
// applied: the same number is shown whichever currency is picked.
type Currency struct {
	Code   string
	Symbol string
	Flag   string
}

// DefaultCurrency is used when no currency was picked.
const DefaultCurrency = "GBP"

var currencies = []Currency{
	{Code: "GBP", Symbol: "£", Flag: "🇬🇧"},
	{Code: "EUR", Symbol: "€", Flag: "🇪🇺"},
	{Code: "USD", Symbol: "$", Flag: "🇺🇸"},
	{Code: "CAD", Symbol: "$", Flag: "🇨🇦"},
	{Code: "AUD", Symbol: "$", Flag: "🇦🇺"},
	{Code: "JPY", Symbol: "¥", Flag: "🇯🇵"},
	{Code: "CHF", Symbol: "₣", Flag: "🇨🇭"},
	{Code: "SEK", Symbol: "kr", Flag: "🇸🇪"},
	{Code: "NOK", Symbol: "kr", Flag: "🇳🇴"},
	{Code: "DKK", Symbol: "kr", Flag: "🇩🇰"},
	{Code: "PLN", Symbol: "zł", Flag: "🇵🇱"},
	{Code: "CZK", Symbol: "Kč", Flag: "🇨🇿"},
	{Code: "HUF", Symbol: "Ft", Flag: "🇭🇺"},
	{Code: "RSD", Symbol: "дин", Flag: "🇷🇸"},
}

// Currencies returns the selectable currency labels.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// LookupCurrency returns the currency for a code (case-insensitive).
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// Format renders an amount as "£48,750.00" (or "-£12.50").
func Format(amount decimal.Decimal, currencyCode string) string {
	symbol := "£"
	if c, ok := LookupCurrency(currencyCode); ok {
		symbol = c.Symbol
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + symbol + group(amount.StringFixed(2))
}

// FormatSigned renders ledger amounts with an explicit "+" for inflows.
func FormatSigned(amount decimal.Decimal, currencyCode string) string {
	if amount.IsPositive() {
		return "+" + Format(amount, currencyCode)
	}
	return Format(amount, currencyCode)
}

func group(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s.%s", b.String(), frac)
}
