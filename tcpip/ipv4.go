//
//   date  : 2016-05-13
//   author: xjdrew
//

package tcpip

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// field offsets in the ipv4 header
const (
	offsetVersion     = 0
	offsetProtocol    = 9
	offsetChecksum    = 10
	offsetSource      = 12
	offsetDestination = 16
)

const MinHeaderLen = ipv4.HeaderLen

// IPv4Header is a view over an owned copy of a packet. Fields are read from
// and written to the buffer on every access; the buffer is the only state.
type IPv4Header struct {
	version   IPVersion
	protocol  IPProtocol
	headerLen int

	payload []byte
}

// NewIPv4Header parses raw and copies it into a buffer owned by the header.
// raw is never modified.
func NewIPv4Header(raw []byte) (*IPv4Header, error) {
	if len(raw) < MinHeaderLen {
		return nil, fmt.Errorf("%w: packet length %d, need at least %d", ErrOutOfBounds, len(raw), MinHeaderLen)
	}

	vl := raw[offsetVersion]
	version := IPVersion(vl >> 4)
	if version != IPv4 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}

	headerLen := int(vl&0x0f) * 4
	if headerLen < MinHeaderLen || headerLen > len(raw) {
		return nil, fmt.Errorf("%w: header length %d, packet length %d", ErrOutOfBounds, headerLen, len(raw))
	}

	protocol := IPProtocol(raw[offsetProtocol])
	if protocol != TCP && protocol != UDP {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, protocol)
	}

	payload := make([]byte, len(raw))
	copy(payload, raw)

	return &IPv4Header{
		version:   version,
		protocol:  protocol,
		headerLen: headerLen,
		payload:   payload,
	}, nil
}

func (h *IPv4Header) Version() IPVersion {
	return h.version
}

func (h *IPv4Header) Protocol() IPProtocol {
	return h.protocol
}

func (h *IPv4Header) HeaderLen() int {
	return h.headerLen
}

func (h *IPv4Header) Checksum() uint16 {
	return binary.BigEndian.Uint16(h.payload[offsetChecksum:])
}

func (h *IPv4Header) SourceIP() net.IP {
	return h.readIP(offsetSource)
}

func (h *IPv4Header) SetSourceIP(ip net.IP) error {
	return h.setIP(offsetSource, ip)
}

func (h *IPv4Header) DestinationIP() net.IP {
	return h.readIP(offsetDestination)
}

func (h *IPv4Header) SetDestinationIP(ip net.IP) error {
	return h.setIP(offsetDestination, ip)
}

// Bytes returns the packet, including any rewritten fields.
func (h *IPv4Header) Bytes() []byte {
	return h.payload
}

// ResetChecksum recomputes the header checksum from scratch.
func (h *IPv4Header) ResetChecksum() {
	h.setChecksum(zeroChecksum)
	h.setChecksum(Checksum(0, h.payload[:h.headerLen]))
}

// ChecksumValid reports whether the stored checksum matches the header.
func (h *IPv4Header) ChecksumValid() bool {
	return fold(Sum(h.payload[:h.headerLen])) == 0xffff
}

func (h *IPv4Header) String() string {
	return fmt.Sprintf("%v > %v %s", h.SourceIP(), h.DestinationIP(), h.protocol)
}

func (h *IPv4Header) setChecksum(sum [2]byte) {
	h.payload[offsetChecksum] = sum[0]
	h.payload[offsetChecksum+1] = sum[1]
}

func (h *IPv4Header) readIP(at int) net.IP {
	var ip = [4]byte{h.payload[at], h.payload[at+1], h.payload[at+2], h.payload[at+3]}
	return net.IP(ip[:])
}

// setIP writes ip at offset at and folds the change into the checksum, one
// 16-bit word at a time.
func (h *IPv4Header) setIP(at int, ip net.IP) error {
	ip4 := ip.To4()
	if ip4 == nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, ip)
	}

	b := h.payload[at : at+4]
	oldHi := binary.BigEndian.Uint16(b[0:])
	oldLo := binary.BigEndian.Uint16(b[2:])
	copy(b, ip4)

	if err := UpdateChecksum(h.payload, offsetChecksum, oldHi, binary.BigEndian.Uint16(b[0:])); err != nil {
		return err
	}
	return UpdateChecksum(h.payload, offsetChecksum, oldLo, binary.BigEndian.Uint16(b[2:]))
}
