// Package transportconn implements TransportConnection: the
// datagram-transport-level session, identified by a small stable integer
// index, independent of whether a ParticipantConnection has been
// assigned to it yet.
package transportconn

import (
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/ordereddatagram"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stats"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

// Phase is the state of a connection's download/catch-up handshake.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitialStateDetermined
	PhasePendingReconnect
)

// Connection holds everything the server tracks about one transport-level
// session, independent of the participant(s) it may host.
type Connection struct {
	IsUsed                 bool
	TransportConnectionId  uint8
	AssignedParticipantConnection *participant.Connection

	InLogic  ordereddatagram.InLogic
	OutLogic ordereddatagram.OutLogic

	Phase                         Phase
	NextAuthoritativeStepIdToSend stepid.StepId

	BlobStreamOutChannel         uint8
	BlobStreamOutActive          bool
	BlobStreamOutClientRequestId uint8
	BlobStreamOut                *blobstream.Out

	StepsBehindStats      *stats.RollingAverage
	NoRangesToSendCounter int
}

// Pool is the fixed array of Connection slots, indexed directly by
// transport connection index: small integers stable for the lifetime of
// the transport-level session.
type Pool struct {
	slots []Connection
}

// NewPool creates a Pool sized for capacity transport connections.
func NewPool(capacity int) *Pool {
	p := &Pool{slots: make([]Connection, capacity)}
	for i := range p.slots {
		p.slots[i].TransportConnectionId = uint8(i)
	}
	return p
}

// Len returns the pool's fixed capacity.
func (p *Pool) Len() int {
	return len(p.slots)
}

// InUse returns every currently connected slot, in slot order.
func (p *Pool) InUse() []*Connection {
	out := make([]*Connection, 0, len(p.slots))
	for i := range p.slots {
		if p.slots[i].IsUsed {
			out = append(out, &p.slots[i])
		}
	}
	return out
}

// Get returns the slot at index, or nil if index is out of range.
func (p *Pool) Get(index uint8) *Connection {
	if int(index) >= len(p.slots) {
		return nil
	}
	return &p.slots[index]
}

// Connect initializes the slot at index as newly connected.
func (p *Pool) Connect(index uint8) *Connection {
	c := p.Get(index)
	if c == nil {
		return nil
	}
	*c = Connection{
		IsUsed:                 true,
		TransportConnectionId:  index,
		Phase:                  PhaseIdle,
		StepsBehindStats:       stats.NewRollingAverage(60),
	}
	return c
}

// Disconnect marks the slot at index unused and resets its ordered
// datagram state so a later reconnect on the same index starts clean.
func (p *Pool) Disconnect(index uint8) {
	c := p.Get(index)
	if c == nil {
		return
	}
	c.IsUsed = false
	c.AssignedParticipantConnection = nil
	c.BlobStreamOut = nil
	c.BlobStreamOutActive = false
	c.InLogic.Reset()
	c.OutLogic.Reset()
}

// ResetAll releases every slot back to empty.
func (p *Pool) ResetAll() {
	for i := range p.slots {
		index := p.slots[i].TransportConnectionId
		p.slots[i] = Connection{TransportConnectionId: index}
	}
}
