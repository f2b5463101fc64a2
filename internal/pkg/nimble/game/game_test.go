package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

func TestMustProvideGameState(t *testing.T) {
	g := New(4, 4, stepid.StepId(0x100))
	g.SetGameState([]byte{0}, stepid.StepId(0x100))
	require.False(t, g.MustProvideGameState())

	for i := 0; i < 81; i++ {
		_, err := g.DiscardIfBufferFull()
		require.NoError(t, err)
		require.NoError(t, g.AuthoritativeSteps.Write(g.AuthoritativeSteps.ExpectedWriteId(), nil))
	}
	require.True(t, g.MustProvideGameState())
}

func TestReinitWithState(t *testing.T) {
	g := New(4, 4, stepid.StepId(0))
	g.ReinitWithState([]byte{0xFE, 0xFE}, stepid.StepId(0x151))
	require.Equal(t, stepid.StepId(0x151), g.LatestState.StepId)
	require.Equal(t, stepid.StepId(0x151), g.AuthoritativeSteps.ExpectedReadId())
}

func TestDiscardIfBufferFull(t *testing.T) {
	g := New(4, 4, stepid.StepId(0))
	maxCapacity := g.AuthoritativeSteps.Capacity() / 3
	for i := 0; i < maxCapacity+5; i++ {
		require.NoError(t, g.AuthoritativeSteps.Write(g.AuthoritativeSteps.ExpectedWriteId(), nil))
	}
	dropped, err := g.DiscardIfBufferFull()
	require.NoError(t, err)
	require.Equal(t, 5, dropped)
	require.Equal(t, maxCapacity, g.AuthoritativeSteps.StepsCount())
}
