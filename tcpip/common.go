//
//   date  : 2016-05-13
//   author: xjdrew
//

package tcpip

import (
	"errors"
	"fmt"
	"net"
)

var (
	ErrUnsupportedVersion  = errors.New("unsupported ip version")
	ErrUnsupportedProtocol = errors.New("unsupported ip protocol")
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrInvalidAddress      = errors.New("invalid ipv4 address")
)

type IPVersion byte

const (
	IPv4 IPVersion = 4
	IPv6 IPVersion = 6
)

func (v IPVersion) String() string {
	switch v {
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	}
	return fmt.Sprintf("IPv%d", byte(v))
}

type IPProtocol byte

const (
	ICMP IPProtocol = 0x01
	TCP  IPProtocol = 0x06
	UDP  IPProtocol = 0x11
)

func (p IPProtocol) String() string {
	switch p {
	case ICMP:
		return "icmp"
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	}
	return fmt.Sprintf("proto(%d)", byte(p))
}

func ConvertIPv4ToUint32(ip net.IP) uint32 {
	ip = ip.To4()
	if ip == nil {
		return 0
	}

	v := uint32(ip[0]) << 24
	v += uint32(ip[1]) << 16
	v += uint32(ip[2]) << 8
	v += uint32(ip[3])
	return v
}

func ConvertUint32ToIPv4(v uint32) net.IP {
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)).To4()
}
