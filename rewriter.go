//
//   date  : 2016-05-13
//   author: xjdrew
//

package ipnat

import (
	"errors"
	"net"
	"sync/atomic"

	"github.com/xjdrew/ipnat/tcpip"
)

type Stats struct {
	Rewritten uint64 // packets with at least one field rewritten
	Passed    uint64 // supported packets no rule matched
	Rejected  uint64 // packets passed through because they could not be parsed
}

// Rewriter rewrites addresses of raw ipv4 packets. Filters must not be
// changed once Rewrite is in use; each call works on its own header copy.
type Rewriter struct {
	nat     *Nat
	filters map[tcpip.IPProtocol]PacketFilter

	rewritten atomic.Uint64
	passed    atomic.Uint64
	rejected  atomic.Uint64
}

func NewRewriter(nat *Nat, protocols ...tcpip.IPProtocol) *Rewriter {
	r := &Rewriter{
		nat:     nat,
		filters: make(map[tcpip.IPProtocol]PacketFilter, len(protocols)),
	}
	filter := natFilter(nat)
	for _, protocol := range protocols {
		r.filters[protocol] = filter
	}
	return r
}

// SetFilter replaces the filter for protocol; nil removes it.
func (r *Rewriter) SetFilter(protocol tcpip.IPProtocol, filter PacketFilter) {
	if filter == nil {
		delete(r.filters, protocol)
		return
	}
	r.filters[protocol] = filter
}

// Rewrite returns the rewritten packet and true, or packet itself and false
// when it is not handled. packet is never modified.
func (r *Rewriter) Rewrite(packet []byte) ([]byte, bool) {
	h, err := tcpip.NewIPv4Header(packet)
	if err != nil {
		r.rejected.Add(1)
		switch {
		case errors.Is(err, tcpip.ErrUnsupportedVersion), errors.Is(err, tcpip.ErrUnsupportedProtocol):
			logger.Debugf("[rewriter] pass through: %v", err)
		default:
			logger.Noticef("[rewriter] pass through malformed packet: %v", err)
		}
		return packet, false
	}

	filter := r.filters[h.Protocol()]
	if filter == nil {
		r.passed.Add(1)
		logger.Debugf("[rewriter] %v protocol %s disabled", h, h.Protocol())
		return packet, false
	}

	if !filter.Filter(h) {
		r.passed.Add(1)
		return packet, false
	}

	r.rewritten.Add(1)
	return h.Bytes(), true
}

func (r *Rewriter) Stats() Stats {
	return Stats{
		Rewritten: r.rewritten.Load(),
		Passed:    r.passed.Load(),
		Rejected:  r.rejected.Load(),
	}
}

func FromConfig(cfg *Config) (*Rewriter, error) {
	nat := NewNat()
	for _, rule := range cfg.Rewrite {
		d, err := parseDirection(rule.Schema)
		if err != nil {
			return nil, err
		}
		if err := nat.Map(d, net.ParseIP(rule.From), net.ParseIP(rule.To)); err != nil {
			return nil, err
		}
	}

	var protocols []tcpip.IPProtocol
	if cfg.Core.TCP {
		protocols = append(protocols, tcpip.TCP)
	}
	if cfg.Core.UDP {
		protocols = append(protocols, tcpip.UDP)
	}

	logger.Infof("[rewriter] %d rules, protocols %v", nat.Count(), protocols)
	return NewRewriter(nat, protocols...), nil
}
