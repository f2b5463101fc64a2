package transport

import (
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
)

// UDP is a Transport backed by a net.PacketConn: one reader goroutine
// feeds a buffered channel, and the server's update loop drains it
// without ever blocking on a socket read.
type UDP struct {
	conn  net.PacketConn
	inbox chan Inbound
	log   *logrus.Entry
}

// NewUDP starts a reader goroutine over conn and returns a ready Transport.
// inboxSize bounds how many undelivered datagrams may queue before the
// reader starts blocking; it should be at least limits.MaxDatagramsPerUpdate.
func NewUDP(conn net.PacketConn, inboxSize int, log *logrus.Entry) *UDP {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	t := &UDP{
		conn:  conn,
		inbox: make(chan Inbound, inboxSize),
		log:   log,
	}
	go t.readLoop()
	return t
}

func (t *UDP) readLoop() {
	buf := make([]byte, limits.MaxDatagramOctetCount)
	for {
		n, addr, err := t.conn.ReadFrom(buf)
		if err != nil {
			t.log.WithError(err).Debug("udp transport read loop exiting")
			return
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		t.inbox <- Inbound{Addr: addr, Data: data}
	}
}

// Inbox implements Transport.
func (t *UDP) Inbox() <-chan Inbound { return t.inbox }

// SendTo implements Transport.
func (t *UDP) SendTo(addr net.Addr, data []byte) error {
	_, err := t.conn.WriteTo(data, addr)
	return errors.Wrap(err, "write udp datagram")
}

// Close implements Transport.
func (t *UDP) Close() error {
	return t.conn.Close()
}
