// Package transport implements TransportConnection's unreliable datagram
// carrier: delivery of raw, whole datagrams with no ordering or
// reliability guarantee of its own, leaving the OrderedDatagramCodec and
// ParticipantConnection ring buffers to cope with loss and reorder.
//
// A Transport never blocks the server's single-threaded update loop: it
// buffers inbound datagrams on a channel fed by its own reader and hands
// back whatever is already queued.
package transport

import "net"

// Inbound is one datagram received from a remote peer, not yet bound to
// a TransportConnection index.
type Inbound struct {
	Addr net.Addr
	Data []byte
}

// Transport is the minimal surface the server needs: a non-blocking
// source of inbound datagrams, and a way to send one to a known peer.
type Transport interface {
	// Inbox returns the channel inbound datagrams are delivered on.
	// Reading it never blocks the caller for longer than a channel
	// receive with a default case requires.
	Inbox() <-chan Inbound
	// SendTo writes data to addr. Errors are non-fatal to the caller's
	// update loop: a failed send is treated the same as a dropped
	// datagram.
	SendTo(addr net.Addr, data []byte) error
	// Close releases the underlying socket.
	Close() error
}
