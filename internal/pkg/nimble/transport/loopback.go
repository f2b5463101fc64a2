package transport

import "net"

// addr is a trivial net.Addr used to identify one side of a Loopback
// pair without opening a real socket.
type addr string

func (a addr) Network() string { return "loopback" }
func (a addr) String() string  { return string(a) }

// Loopback is an in-memory Transport for tests: writes to it are
// delivered directly to its peer's inbox, with no real I/O and no
// reordering, driving a handler purely through in-process channels.
type Loopback struct {
	self  addr
	inbox chan Inbound
	peer  *Loopback
}

// NewLoopbackPair returns two Loopback transports wired to each other.
func NewLoopbackPair(inboxSize int) (a *Loopback, b *Loopback) {
	a = &Loopback{self: "a", inbox: make(chan Inbound, inboxSize)}
	b = &Loopback{self: "b", inbox: make(chan Inbound, inboxSize)}
	a.peer = b
	b.peer = a
	return a, b
}

// Inbox implements Transport.
func (l *Loopback) Inbox() <-chan Inbound { return l.inbox }

// SendTo implements Transport. addr is ignored; a Loopback only ever has
// one peer.
func (l *Loopback) SendTo(_ net.Addr, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	l.peer.inbox <- Inbound{Addr: l.self, Data: cp}
	return nil
}

// Close implements Transport.
func (l *Loopback) Close() error { return nil }
