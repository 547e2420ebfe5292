package pix

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// noReference is the placeholder banks print for "no reference"; treated as absent.
const noReference = "***"

// maxReferenceLen is the reference-label limit of the additional data template.
const maxReferenceLen = 25

// NewReference builds a fallback reference label: "PIX", the local timestamp and
// 8 random hex digits. It is practically unique per process, nothing more.
func NewReference(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "PIX" + now.Format("20060102150405") + suffix
}

// ParticipantReference builds the "ID<id>ID" label used to correlate a payment with a registrant.
// It returns "" when id is blank or the label would not fit, so the encoder falls
// back to a generated label.
func ParticipantReference(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	ref := "ID" + id + "ID"
	if !ReferenceFits(ref) {
		return ""
	}
	return ref
}

// ReferenceFits reports whether tag survives sanitization within the reference-label limit.
func ReferenceFits(tag string) bool {
	ref := sanitizeReference(tag)
	return ref != "" && len(ref) <= maxReferenceLen
}
