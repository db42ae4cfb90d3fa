//
//   date  : 2016-05-13
//   author: xjdrew
//

package tcpip

import (
	"encoding/binary"
	"fmt"
)

var (
	zeroChecksum = [2]byte{0x00, 0x00}
)

func Sum(b []byte) uint32 {
	var sum uint32

	n := len(b)
	for i := 0; i < n; i = i + 2 {
		sum += (uint32(b[i]) << 8)
		if i+1 < n {
			sum += uint32(b[i+1])
		}
	}
	return sum
}

// checksum for Internet Protocol family headers
func Checksum(sum uint32, b []byte) (answer [2]byte) {
	sum += Sum(b)
	sum = fold(sum)
	sum = ^sum
	answer[0] = byte(sum >> 8)
	answer[1] = byte(sum)
	return
}

// fold adds the carries back until the sum fits in 16 bits
func fold(sum uint32) uint32 {
	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}
	return sum
}

// UpdateChecksum adjusts the checksum stored at b[offset:offset+2] after a
// 16-bit word covered by it changed from oldValue to newValue (RFC 1624):
//
//	HC' = ~(~HC + ~m + m')
//
// No other byte of b is touched.
func UpdateChecksum(b []byte, offset int, oldValue, newValue uint16) error {
	if offset < 0 || offset+2 > len(b) {
		return fmt.Errorf("%w: checksum offset %d, buffer length %d", ErrOutOfBounds, offset, len(b))
	}

	sum := uint32(^binary.BigEndian.Uint16(b[offset:]))
	sum += uint32(^oldValue)
	sum += uint32(newValue)
	sum = fold(sum)
	binary.BigEndian.PutUint16(b[offset:], ^uint16(sum))
	return nil
}
