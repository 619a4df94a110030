package prefixvec

import (
	"encoding/binary"
	"fmt"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is the default byte order of the primitive Reader/Writer helpers.
	// The wire format of every sequence in this package is little-endian.
	Order binary.ByteOrder = LE
)

// CheckBufferNotZeros reports the first non-zero byte of b as ErrTrailingData.
func CheckBufferNotZeros(b []byte) error {
	for i, c := range b {
		if c != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, c, i)
		}
	}
	return nil
}
