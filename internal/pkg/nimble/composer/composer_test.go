package composer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/game"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

func writePredicted(t *testing.T, conn *participant.Connection, id stepid.StepId, participantId uint8, payload []byte) {
	body, err := wire.EncodeCombinedStepBody(wire.CombinedStep{{ParticipantId: participantId, Bytes: payload}})
	require.NoError(t, err)
	require.NoError(t, conn.Steps.Write(id, body))
}

func TestComposeThreeSteps(t *testing.T) {
	g := game.New(4, 4, stepid.StepId(0x100))
	pool := participant.NewPool(4, 4, 4)
	conn, err := pool.Create(0, stepid.StepId(0x100))
	require.NoError(t, err)
	p, err := g.Participants.Allocate(0)
	require.NoError(t, err)
	conn.ParticipantRefs = append(conn.ParticipantRefs, p)

	inputs := [][]byte{{0xAA}, {0xBB}, {0xCC}}
	for i, payload := range inputs {
		writePredicted(t, conn, stepid.Add(stepid.StepId(0x100), int32(i)), p.Id, payload)
	}

	result, err := Compose(g, pool.InUse())
	require.NoError(t, err)
	require.Equal(t, 3, result.AdvanceCount)
	require.Equal(t, stepid.StepId(0x103), g.AuthoritativeSteps.ExpectedWriteId())
	require.Len(t, result.Emitted, 3)
	require.Equal(t, stepid.StepId(0x100), result.Emitted[0].Id)

	for i, want := range inputs {
		body, err := g.AuthoritativeSteps.Read(stepid.Add(stepid.StepId(0x100), int32(i)))
		require.NoError(t, err)
		step, err := wire.DecodeCombinedStepBody(body)
		require.NoError(t, err)
		require.Equal(t, want, step[0].Bytes)
	}
}

func TestForcedStepDisconnect(t *testing.T) {
	g := game.New(4, 4, stepid.StepId(0))
	pool := participant.NewPool(4, 4, 4)

	connA, err := pool.Create(0, stepid.StepId(0))
	require.NoError(t, err)
	pA, err := g.Participants.Allocate(0)
	require.NoError(t, err)
	connA.ParticipantRefs = append(connA.ParticipantRefs, pA)

	connB, err := pool.Create(1, stepid.StepId(0))
	require.NoError(t, err)
	pB, err := g.Participants.Allocate(0)
	require.NoError(t, err)
	connB.ParticipantRefs = append(connB.ParticipantRefs, pB)

	for tick := 0; tick <= limits.ForcedStepDisconnectThreshold; tick++ {
		writePredicted(t, connA, stepid.Add(stepid.StepId(0), int32(tick)), pA.Id, []byte{0x01})
		result, err := Compose(g, pool.InUse())
		require.NoError(t, err)
		require.Equal(t, 1, result.AdvanceCount)
		if tick < limits.ForcedStepDisconnectThreshold {
			require.Empty(t, result.Disconnect)
		} else {
			require.Len(t, result.Disconnect, 1)
			require.Same(t, connB, result.Disconnect[0])
		}
	}
	require.Equal(t, limits.ForcedStepDisconnectThreshold+1, connB.ForcedStepInRowCounter)
}

func TestComposeStopsWhenNothingNew(t *testing.T) {
	g := game.New(4, 4, stepid.StepId(0))
	pool := participant.NewPool(4, 4, 4)
	conn, err := pool.Create(0, stepid.StepId(0))
	require.NoError(t, err)
	p, err := g.Participants.Allocate(0)
	require.NoError(t, err)
	conn.ParticipantRefs = append(conn.ParticipantRefs, p)

	result, err := Compose(g, pool.InUse())
	require.NoError(t, err)
	require.Equal(t, 0, result.AdvanceCount)
}
