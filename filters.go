//
//   date  : 2016-05-13
//   author: xjdrew
//

package ipnat

import (
	"github.com/xjdrew/ipnat/tcpip"
)

// PacketFilter rewrites h in place and reports whether anything changed.
type PacketFilter interface {
	Filter(h *tcpip.IPv4Header) bool
}

type PacketFilterFunc func(h *tcpip.IPv4Header) bool

func (f PacketFilterFunc) Filter(h *tcpip.IPv4Header) bool {
	return f(h)
}

func natFilter(nat *Nat) PacketFilter {
	return PacketFilterFunc(func(h *tcpip.IPv4Header) bool {
		return natFilterFunc(nat, h)
	})
}

func natFilterFunc(nat *Nat, h *tcpip.IPv4Header) bool {
	srcIP := h.SourceIP()
	dstIP := h.DestinationIP()

	changed := false
	if ip, ok := nat.Lookup(SNAT, srcIP); ok {
		if err := h.SetSourceIP(ip); err != nil {
			logger.Errorf("[nat filter] %v set source %v failed: %v", h, ip, err)
			return changed
		}
		changed = true
	}

	if ip, ok := nat.Lookup(DNAT, dstIP); ok {
		if err := h.SetDestinationIP(ip); err != nil {
			logger.Errorf("[nat filter] %v set destination %v failed: %v", h, ip, err)
			return changed
		}
		changed = true
	}

	if changed {
		logger.Debugf("[nat filter] reshape %s packet from [%v > %v] to [%v > %v]",
			h.Protocol(), srcIP, dstIP, h.SourceIP(), h.DestinationIP())
	}
	return changed
}
