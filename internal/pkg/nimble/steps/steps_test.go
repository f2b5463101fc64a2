package steps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(4, 8, stepid.StepId(100))
	require.NoError(t, s.Write(stepid.StepId(100), []byte("aa")))
	require.NoError(t, s.Write(stepid.StepId(101), []byte("bb")))

	got, err := s.Read(stepid.StepId(100))
	require.NoError(t, err)
	require.Equal(t, []byte("aa"), got)
	require.Equal(t, 2, s.StepsCount())
}

func TestWriteWrongIdFails(t *testing.T) {
	s := New(4, 8, stepid.StepId(0))
	err := s.Write(stepid.StepId(1), []byte("x"))
	require.ErrorIs(t, err, ErrWrongWriteId)
}

func TestWriteOversizedPayloadFails(t *testing.T) {
	s := New(4, 2, stepid.StepId(0))
	err := s.Write(stepid.StepId(0), []byte("too big"))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestReadOutsideWindowFails(t *testing.T) {
	s := New(4, 8, stepid.StepId(0))
	require.NoError(t, s.Write(stepid.StepId(0), []byte("a")))
	require.NoError(t, s.DiscardCount(1))

	_, err := s.Read(stepid.StepId(0))
	require.ErrorIs(t, err, ErrReadBeforeWindow)

	_, err = s.Read(stepid.StepId(5))
	require.ErrorIs(t, err, ErrReadAfterWindow)
}

func TestDiscardCountAndUpTo(t *testing.T) {
	s := New(8, 8, stepid.StepId(0))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Write(stepid.StepId(i), []byte{byte(i)}))
	}
	require.NoError(t, s.DiscardCount(2))
	require.Equal(t, stepid.StepId(2), s.ExpectedReadId())
	require.Equal(t, 3, s.StepsCount())

	require.NoError(t, s.DiscardUpTo(stepid.StepId(4)))
	require.Equal(t, stepid.StepId(4), s.ExpectedReadId())
	require.Equal(t, 1, s.StepsCount())
}

func TestReinit(t *testing.T) {
	s := New(4, 8, stepid.StepId(0))
	require.NoError(t, s.Write(stepid.StepId(0), []byte("a")))
	s.Reinit(stepid.StepId(0x151))
	require.Equal(t, stepid.StepId(0x151), s.ExpectedReadId())
	require.Equal(t, stepid.StepId(0x151), s.ExpectedWriteId())
	require.Equal(t, 0, s.StepsCount())
}

func TestStoreFull(t *testing.T) {
	s := New(2, 8, stepid.StepId(0))
	require.NoError(t, s.Write(stepid.StepId(0), []byte("a")))
	require.NoError(t, s.Write(stepid.StepId(1), []byte("b")))
	err := s.Write(stepid.StepId(2), []byte("c"))
	require.ErrorIs(t, err, ErrStoreFull)
}

func TestReadRange(t *testing.T) {
	s := New(8, 8, stepid.StepId(10))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Write(stepid.StepId(10+i), []byte{byte(i)}))
	}
	rng := s.ReadRange(stepid.StepId(10), 3)
	require.Len(t, rng, 3)
	require.Equal(t, stepid.StepId(10), rng[0].Id)
	require.Equal(t, stepid.StepId(12), rng[2].Id)
}
