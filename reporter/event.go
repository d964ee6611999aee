package reporter

import (
	"net/netip"
	"strconv"
	"time"
)

// MaxDatagramSize is the receive buffer size. It covers a typical Ethernet MTU;
// longer datagrams are truncated to this size.
const MaxDatagramSize = 1500

// Event is a single received datagram. It is only valid until the next
// receive, Payload aliases the reporter's buffer.
type Event struct {
	// Time is the wall clock time the datagram was read.
	Time time.Time
	// IP is the sender address, with IPv4-mapped IPv6 addresses unmapped.
	IP netip.Addr
	// Port is the sender port.
	Port uint16
	// Payload holds at most MaxDatagramSize bytes.
	Payload []byte
	// Truncated is set when the kernel reported the datagram was longer than
	// the receive buffer.
	Truncated bool
}

// Source returns the sender formatted as ip:port.
func (e Event) Source() string {
	return e.IP.String() + ":" + strconv.FormatUint(uint64(e.Port), 10)
}
