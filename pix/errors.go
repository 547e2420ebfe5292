package pix

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a PaymentRequest cannot be encoded.
// It is deterministic for a given request, so callers should re-prompt instead of retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError checks if err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var (
	// ErrMalformedPayload is returned by Parse for text that is not a TLV sequence.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrChecksumMismatch is returned by Parse when the trailing CRC does not match.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
