package pix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumReferenceVectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint16
	}{
		{name: "check string", input: "123456789", expected: 0x29B1},
		{name: "empty input keeps init value", input: "", expected: 0xFFFF},
		{name: "single byte", input: "A", expected: 0xB915},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Checksum([]byte(tt.input)))
		})
	}
}

func TestFormatChecksum(t *testing.T) {
	assert.Equal(t, "29B1", FormatChecksum(0x29B1))
	assert.Equal(t, "00AF", FormatChecksum(0x00AF))
	assert.Equal(t, "0000", FormatChecksum(0))
}
