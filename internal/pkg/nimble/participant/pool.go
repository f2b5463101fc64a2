package participant

import (
	"github.com/google/uuid"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stats"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/steps"
)

// ReleasedId is the sentinel written into Connection.Id when a connection
// is released, so a stale reference through an older pointer faults loudly
// instead of silently aliasing a reused slot.
const ReleasedId = 0x100

// Connection is the server's representation of one client's participation:
// a transport connection's bundle of 1..N Participants plus its own
// inbound predicted-step ring.
type Connection struct {
	Id                           uint32
	IsUsed                       bool
	TransportConnectionId        uint8
	Steps                        *steps.Store
	ParticipantRefs              []*Participant
	ForcedStepInRowCounter       int
	IncomingStepCountInBufferStats *stats.RollingAverage
	SessionNonce                 uuid.UUID
}

// HasParticipantId reports whether id is one of this connection's
// registered participants.
func (c *Connection) HasParticipantId(id uint8) bool {
	for _, p := range c.ParticipantRefs {
		if p.Id == id {
			return true
		}
	}
	return false
}

// Pool is the fixed-capacity array of Connection slots. Slot selection is
// a first-free scan; capacity is fixed at construction, with no dynamic
// growth at runtime.
type Pool struct {
	slots         []Connection
	maxParticipants int
	maxStepOctets   int
}

// NewPool creates a Pool with capacity slots. Each connection's participant
// list is preallocated for maxParticipants entries, and each step body its
// predicted-step ring stores (one combined body per tick) may hold at most
// maxStepOctets octets.
func NewPool(capacity, maxParticipants, maxStepOctets int) *Pool {
	return &Pool{
		slots:           make([]Connection, capacity),
		maxParticipants: maxParticipants,
		maxStepOctets:   maxStepOctets,
	}
}

// Create allocates a free slot for transportConnectionId, initializing its
// step store at startId.
func (p *Pool) Create(transportConnectionId uint8, startId stepid.StepId) (*Connection, error) {
	for i := range p.slots {
		if !p.slots[i].IsUsed {
			p.slots[i] = Connection{
				Id:                            uint32(i),
				IsUsed:                        true,
				TransportConnectionId:         transportConnectionId,
				Steps:                         steps.New(limits.DefaultWindowSize, p.maxStepOctets, startId),
				ParticipantRefs:               make([]*Participant, 0, p.maxParticipants),
				IncomingStepCountInBufferStats: stats.NewRollingAverage(60),
				SessionNonce:                  uuid.New(),
			}
			return &p.slots[i], nil
		}
	}
	return nil, ErrPoolFull
}

// FindByTransportConnectionId returns the in-use connection bound to
// transportConnectionId, if any.
func (p *Pool) FindByTransportConnectionId(transportConnectionId uint8) (*Connection, bool) {
	for i := range p.slots {
		if p.slots[i].IsUsed && p.slots[i].TransportConnectionId == transportConnectionId {
			return &p.slots[i], true
		}
	}
	return nil, false
}

// Release marks conn unused and stamps the sentinel id.
func (p *Pool) Release(conn *Connection) {
	conn.IsUsed = false
	conn.Id = ReleasedId
	conn.ParticipantRefs = nil
}

// ResetAll releases every slot back to empty.
func (p *Pool) ResetAll() {
	for i := range p.slots {
		p.slots[i] = Connection{}
	}
}

// InUse returns every currently in-use connection, in slot order.
func (p *Pool) InUse() []*Connection {
	out := make([]*Connection, 0, len(p.slots))
	for i := range p.slots {
		if p.slots[i].IsUsed {
			out = append(out, &p.slots[i])
		}
	}
	return out
}

// Len returns the pool's fixed capacity.
func (p *Pool) Len() int {
	return len(p.slots)
}
