package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeAmount strips a leading "$", thousands separators and surrounding
// whitespace, then parses the rest as an exact decimal. The sign is not
// checked here.
func SanitizeAmount(text string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatExact renders d with at least two fractional digits and never drops
// precision, e.g. 100 -> "100.00", 1.005 -> "1.005".
func FormatExact(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return d.StringFixed(places)
}

// FormatMoney renders d for display as dollars and cents.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixedBank(2)
}

// ValidPIN reports whether pin is exactly four ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
