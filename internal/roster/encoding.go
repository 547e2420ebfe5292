package roster

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedEncoding is returned for an encoding name Decode does not know.
var ErrUnsupportedEncoding = errors.New("unsupported roster encoding")

// DecodeError is returned when the roster bytes are not valid in the declared encoding.
type DecodeError struct {
	Encoding string
	Offset   int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("roster is not valid %s (first bad byte at offset %d)", e.Encoding, e.Offset)
}

// Decode converts raw roster bytes in the declared encoding to UTF-8.
// There is no fallback: a file in the wrong encoding is an error.
func Decode(data []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		// Skip UTF-8 BOM if present
		data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
		if !utf8.Valid(data) {
			return "", &DecodeError{Encoding: "utf-8", Offset: firstInvalidUTF8(data)}
		}
		return string(data), nil
	case "latin-1", "latin1", "iso-8859-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode iso-8859-1: %w", err)
		}
		return string(out), nil
	case "cp1252", "windows-1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode windows-1252: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
