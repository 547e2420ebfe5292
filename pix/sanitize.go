package pix

import (
	"strings"

	"github.com/AlexZinkM/event-registration/internal/common"
)

// sanitizeKey keeps only the characters a PIX key may carry: alphanumerics, '@', '.', '-'.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) || r == '@' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, key)
}

// sanitizeText strips diacritics, drops anything outside [A-Za-z0-9 .-],
// truncates to maxLen bytes and upper-cases the result.
func sanitizeText(s string, maxLen int) string {
	s = common.StripDiacritics(s)
	s = strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) || r == ' ' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	// only ASCII is left, so bytes == runes
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.ToUpper(s)
}

// sanitizeReference keeps only alphanumerics, the charset banks accept in the reference label.
func sanitizeReference(ref string) string {
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) {
			return r
		}
		return -1
	}, ref)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
