package roster

import (
	"regexp"
	"strings"

	"github.com/AlexZinkM/event-registration/internal/common"
)

var (
	nonAlnumSpace = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// Normalize folds a typed name for comparison: trimmed, lower-cased, accents
// removed, punctuation dropped and whitespace collapsed.
// Example: Normalize("  João  da SILVA-Jr. ") = "joao da silvajr"
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToLower(name)
	name = common.StripDiacriticsCompat(name)
	name = nonAlnumSpace.ReplaceAllString(name, "")
	name = spaceRun.ReplaceAllString(name, " ")

	// punctuation between spaces can leave an edge space behind
	return strings.TrimSpace(name)
}
