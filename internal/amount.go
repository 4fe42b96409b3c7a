// Package internal provides small helpers shared across the repository.
package internal

import (
	"fmt"
	"strings"
)

// zeroDecimalCurrencies are the ISO currencies that have no minor unit, so
// their amounts are not scaled by 100 on the wire.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

// IsZeroDecimal reports whether the given currency has no minor unit.
func IsZeroDecimal(currency string) bool {
	return zeroDecimalCurrencies[strings.ToLower(currency)]
}

// ValidCurrency reports whether the given code looks like an ISO 4217
// currency code. Vendors reject unknown codes on their side.
func ValidCurrency(currency string) bool {
	if len(currency) != 3 {
		return false
	}
	for _, r := range currency {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// ValidAmount reports whether the given minor-unit amount is acceptable for a
// charge. Zero-decimal currencies accept any positive value; the rest must be
// at least one minor unit.
func ValidAmount(amount int64, currency string) bool {
	return ValidCurrency(currency) && amount > 0
}

// FormatDecimal renders a minor-unit amount as the decimal string the PayPal
// API expects, e.g. 1550/"usd" -> "15.50" and 1550/"jpy" -> "1550".
func FormatDecimal(amount int64, currency string) string {
	if IsZeroDecimal(currency) {
		return fmt.Sprintf("%d", amount)
	}
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
