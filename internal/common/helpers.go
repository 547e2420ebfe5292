package common

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	BRLDecimals = 2 // BRL has 2 decimals (centavos)
)

// StripDiacritics decomposes s (NFD) and drops the combining marks,
// so "São José" becomes "Sao Jose".
func StripDiacritics(s string) string {
	return stripMarks(s, norm.NFD)
}

// StripDiacriticsCompat is StripDiacritics with compatibility decomposition (NFKD),
// which also folds ligatures and full-width forms.
func StripDiacriticsCompat(s string) string {
	return stripMarks(s, norm.NFKD)
}

func stripMarks(s string, form norm.Form) string {
	// transform.Chain is stateful, build a fresh one per call
	t := transform.Chain(form, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ParseAmount parses a non-negative BRL amount with at most 2 decimals.
// Example: ParseAmount("75.5") = 75.50
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty string")
	}

	// accept "75,50" as typed in Brazilian forms
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format")
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	if d.Exponent() < -BRLDecimals && !d.Equal(d.Round(BRLDecimals)) {
		return decimal.Zero, fmt.Errorf("amount has more than %d decimals", BRLDecimals)
	}
	return d.Round(BRLDecimals), nil
}

// FormatAmount renders amount with exactly 2 decimals and a dot separator ("1234.50").
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(BRLDecimals)
}

// FormatBRL renders amount for display using pt-BR grouping ("R$ 1.234,50").
func FormatBRL(amount decimal.Decimal) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	// float only for display, never for totals
	f, _ := amount.Round(BRLDecimals).Float64()
	return p.Sprintf("R$ %.2f", f)
}
