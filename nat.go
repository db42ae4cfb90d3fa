//
//   date  : 2016-05-13
//   author: xjdrew
//

package ipnat

import (
	"fmt"
	"net"

	"github.com/xjdrew/ipnat/internal"
	"github.com/xjdrew/ipnat/tcpip"
)

var logger = internal.GetLogger()

type Direction int

const (
	SNAT Direction = iota // rewrite source address
	DNAT                  // rewrite destination address
)

func (d Direction) String() string {
	switch d {
	case SNAT:
		return "SNAT"
	case DNAT:
		return "DNAT"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Nat is a static one to one address table. It is not safe for concurrent
// modification; build it before packets start flowing.
type Nat struct {
	tables [2]map[uint32]uint32
}

func NewNat() *Nat {
	return &Nat{
		tables: [2]map[uint32]uint32{
			make(map[uint32]uint32),
			make(map[uint32]uint32),
		},
	}
}

func (nat *Nat) table(d Direction) map[uint32]uint32 {
	if d != SNAT && d != DNAT {
		return nil
	}
	return nat.tables[d]
}

func (nat *Nat) Map(d Direction, from, to net.IP) error {
	tbl := nat.table(d)
	if tbl == nil {
		return fmt.Errorf("[nat] invalid direction: %v", d)
	}
	if from.To4() == nil || to.To4() == nil {
		return fmt.Errorf("[nat] %v %v > %v: %w", d, from, to, tcpip.ErrInvalidAddress)
	}

	tbl[tcpip.ConvertIPv4ToUint32(from)] = tcpip.ConvertIPv4ToUint32(to)
	logger.Debugf("[nat] %v %v > %v", d, from, to)
	return nil
}

func (nat *Nat) MapSource(from, to net.IP) error {
	return nat.Map(SNAT, from, to)
}

func (nat *Nat) MapDestination(from, to net.IP) error {
	return nat.Map(DNAT, from, to)
}

func (nat *Nat) Unmap(d Direction, from net.IP) {
	if tbl := nat.table(d); tbl != nil && from.To4() != nil {
		delete(tbl, tcpip.ConvertIPv4ToUint32(from))
	}
}

// Lookup returns the address ip is rewritten to in direction d.
func (nat *Nat) Lookup(d Direction, ip net.IP) (net.IP, bool) {
	tbl := nat.table(d)
	if tbl == nil || ip.To4() == nil {
		return nil, false
	}
	v, ok := tbl[tcpip.ConvertIPv4ToUint32(ip)]
	if !ok {
		return nil, false
	}
	return tcpip.ConvertUint32ToIPv4(v), true
}

func (nat *Nat) Count() int {
	return len(nat.tables[SNAT]) + len(nat.tables[DNAT])
}
