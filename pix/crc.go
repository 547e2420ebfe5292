package pix

import (
	"fmt"

	"github.com/snksoft/crc"
)

// CRC-16/CCITT-FALSE, the variant banking apps validate:
// poly 0x1021, init 0xFFFF, no reflection, no final xor.
var ccittFalse = crc.NewTable(&crc.Parameters{
	Width:      16,
	Polynomial: 0x1021,
	Init:       0xFFFF,
	ReflectIn:  false,
	ReflectOut: false,
	FinalXor:   0x0000,
})

// Checksum returns the CRC-16/CCITT-FALSE of data.
func Checksum(data []byte) uint16 {
	return uint16(ccittFalse.CalculateCRC(data))
}

// FormatChecksum renders sum as 4 upper-case hex digits.
func FormatChecksum(sum uint16) string {
	return fmt.Sprintf("%04X", sum)
}
