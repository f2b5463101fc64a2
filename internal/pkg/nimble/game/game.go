// Package game holds the server's authoritative view of the simulation:
// the latest state blob, the authoritative step ring, and the
// participant registry.
package game

import (
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/steps"
)

// State is the latest serialized game state blob and the StepId it was
// captured at.
type State struct {
	Bytes  []byte
	StepId stepid.StepId
}

// Game is the server's authoritative view of the simulation: the latest
// state snapshot plus the step ring and participant registry.
type Game struct {
	AuthoritativeSteps *steps.Store
	LatestState        State
	Participants       *participant.Registry
	DebugIsFrozen       bool

	maxSingleParticipantStepOctetCount int
	maxParticipantCount                 int
}

// New creates a Game with authoritativeSteps starting at startId.
func New(maxParticipantCount, maxSingleParticipantStepOctetCount int, startId stepid.StepId) *Game {
	maxCombined := maxParticipantCount*(maxSingleParticipantStepOctetCount+2) + 1
	return &Game{
		AuthoritativeSteps:                   steps.New(limits.DefaultWindowSize, maxCombined, startId),
		Participants:                         participant.NewRegistry(maxParticipantCount),
		maxSingleParticipantStepOctetCount:    maxSingleParticipantStepOctetCount,
		maxParticipantCount:                   maxParticipantCount,
	}
}

// SetGameState installs a new state snapshot. Callers performing a full
// reinit must ensure no BlobStreamOut referencing the previous snapshot
// is still in flight before calling this, since downstream chunk reads
// would otherwise race a replaced snapshot.
func (g *Game) SetGameState(bytes []byte, id stepid.StepId) {
	g.LatestState = State{Bytes: bytes, StepId: id}
}

// MustProvideGameState reports true once the authoritative frontier has
// advanced more than ReasonableStepsToCatchUpForJoiners ticks past the
// latest snapshot, meaning a joining connection can no longer plausibly
// catch up by replaying the step ring alone.
func (g *Game) MustProvideGameState() bool {
	delta := stepid.Delta(g.AuthoritativeSteps.ExpectedWriteId(), g.LatestState.StepId)
	return delta > limits.ReasonableStepsToCatchUpForJoiners
}

// ReinitWithState resets the authoritative step ring to start at id and
// installs gameState as the latest snapshot. Afterwards
// LatestState.StepId == id and AuthoritativeSteps.ExpectedReadId() == id.
// The caller is responsible for confirming no BlobStreamOut is still
// streaming the state being discarded; see Server.ReInitWithGame.
func (g *Game) ReinitWithState(gameState []byte, id stepid.StepId) {
	g.AuthoritativeSteps.Reinit(id)
	g.SetGameState(gameState, id)
	g.Participants.Reset()
}

// DiscardIfBufferFull applies the back-pressure rule: before ingesting
// new predicted steps, if the authoritative ring holds more than
// capacity/AuthoritativeBufferFullFraction steps, the oldest excess is
// dropped. Returns the number of steps discarded.
func (g *Game) DiscardIfBufferFull() (int, error) {
	maxCapacity := g.AuthoritativeSteps.Capacity() / limits.AuthoritativeBufferFullFraction
	count := g.AuthoritativeSteps.StepsCount()
	if count <= maxCapacity {
		return 0, nil
	}
	toDrop := count - maxCapacity
	if err := g.AuthoritativeSteps.DiscardCount(toDrop); err != nil {
		return 0, err
	}
	return toDrop, nil
}
