package core

import (
	"fmt"
	"strings"
)

// currencySymbols maps known currency codes to their display prefix.
var currencySymbols = map[string]string{
	CurrencyRWF: "RWF ",
	CurrencyUSD: "$",
	CurrencyNGN: "₦",
}

// FormatAmount renders an amount for display in the base currency: the
// absolute value is scaled by the matching exchange rate (when the rate is a
// positive number), prefixed with the currency symbol and grouped with
// thousands separators at two decimal places. Unknown currencies fall back
// to the naira symbol, unscaled.
func FormatAmount(n float64, s Settings) string {
	amount := n
	if amount < 0 {
		amount = -amount
	}

	switch s.BaseCurrency {
	case CurrencyUSD:
		if s.RateUSD > 0 {
			amount *= s.RateUSD
		}
	case CurrencyNGN:
		if s.RateNGN > 0 {
			amount *= s.RateNGN
		}
	}

	symbol, ok := currencySymbols[s.BaseCurrency]
	if !ok {
		symbol = currencySymbols[CurrencyNGN]
	}
	return symbol + groupThousands(fmt.Sprintf("%.2f", amount))
}

// FormatSigned prefixes the formatted amount with + for income and − for
// expenses, matching the table and recent-list rendering contract.
func FormatSigned(n float64, typ TransactionType, s Settings) string {
	if typ == TypeIncome {
		return "+" + FormatAmount(n, s)
	}
	return "−" + FormatAmount(n, s)
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string ("1234567.89" -> "1,234,567.89").
func groupThousands(fixed string) string {
	intPart := fixed
	frac := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}
