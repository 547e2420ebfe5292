package pix

import (
	"fmt"
	"strconv"
	"strings"
)

// Tags of the EMV merchant-presented payload, in emission order.
const (
	TagPayloadFormat   = "00"
	TagMerchantAccount = "26"
	TagCategory        = "52"
	TagCurrency        = "53"
	TagAmount          = "54"
	TagCountry         = "58"
	TagMerchantName    = "59"
	TagMerchantCity    = "60"
	TagAdditionalData  = "62"
	TagCRC             = "63"

	// sub-tags of TagMerchantAccount
	TagAccountGUI = "00"
	TagAccountKey = "01"

	// sub-tag of TagAdditionalData
	TagReferenceLabel = "05"
)

// maxFieldLen is the largest value a 2-digit length prefix can describe.
const maxFieldLen = 99

// Field is one decoded tag-length-value unit.
type Field struct {
	Tag   string
	Value string
}

// Nested decodes the value of a template field (26, 62) into its sub-fields.
func (f Field) Nested() ([]Field, error) {
	return parseFields(f.Value)
}

// tlvWriter concatenates fields and keeps the first error, so a payload is
// either fully built or rejected as a whole.
type tlvWriter struct {
	sb  strings.Builder
	err error
}

func (w *tlvWriter) field(tag, name, value string) {
	if w.err != nil {
		return
	}
	if len(value) > maxFieldLen {
		w.err = &ValidationError{
			Field:  name,
			Reason: fmt.Sprintf("value is %d bytes, the limit is %d", len(value), maxFieldLen),
		}
		return
	}
	w.sb.WriteString(tag)
	w.sb.WriteString(fmt.Sprintf("%02d", len(value)))
	w.sb.WriteString(value)
}

func (w *tlvWriter) raw(s string) {
	if w.err != nil {
		return
	}
	w.sb.WriteString(s)
}

func (w *tlvWriter) String() string {
	return w.sb.String()
}

// Parse decodes a payload produced by Encode: it verifies the trailing
// CRC-16/CCITT-FALSE and returns the top-level fields in order, the CRC field included.
func Parse(payload string) ([]Field, error) {
	const trailer = TagCRC + "04"
	if len(payload) < len(trailer)+4 {
		return nil, fmt.Errorf("%w: payload too short", ErrMalformedPayload)
	}

	body := payload[:len(payload)-4]
	if !strings.HasSuffix(body, trailer) {
		return nil, fmt.Errorf("%w: missing checksum field", ErrMalformedPayload)
	}

	got, err := strconv.ParseUint(payload[len(payload)-4:], 16, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: checksum is not hex", ErrMalformedPayload)
	}
	if want := Checksum([]byte(body)); uint16(got) != want {
		return nil, fmt.Errorf("%w: got %04X, want %s", ErrChecksumMismatch, got, FormatChecksum(want))
	}

	return parseFields(payload)
}

func parseFields(s string) ([]Field, error) {
	var fields []Field
	for i := 0; i < len(s); {
		if len(s)-i < 4 {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformedPayload, i)
		}
		tag := s[i : i+2]
		n, err := strconv.Atoi(s[i+2 : i+4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad length at offset %d", ErrMalformedPayload, i+2)
		}
		start := i + 4
		if start+n > len(s) {
			return nil, fmt.Errorf("%w: field %s overruns payload", ErrMalformedPayload, tag)
		}
		fields = append(fields, Field{Tag: tag, Value: s[start : start+n]})
		i = start + n
	}
	return fields, nil
}

// Lookup returns the first field with the given tag.
func Lookup(fields []Field, tag string) (Field, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}
