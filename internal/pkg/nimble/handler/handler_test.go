package handler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/game"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transportconn"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

func newTestHandlers(t *testing.T) *Handlers {
	g := game.New(limits.MaxParticipantCount, limits.MaxSingleParticipantStepOctetCount, stepid.StepId(0))
	g.SetGameState([]byte("snapshot"), stepid.StepId(0))
	h, err := New(
		WithGame(g),
		WithParticipantPool(participant.NewPool(4, limits.MaxLocalPlayers, limits.MaxSingleParticipantStepOctetCount)),
		WithTransportConnPool(transportconn.NewPool(4)),
		WithChannelAllocator(blobstream.NewChannelAllocator()),
		WithApplicationVersion(7),
	)
	require.NoError(t, err)
	h.transportConns.Connect(0)
	return h
}

func TestJoinGameAssignsAscendingParticipantIds(t *testing.T) {
	h := newTestHandlers(t)
	payload, err := h.HandleJoinGameRequest(0, wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 2}))
	require.NoError(t, err)

	resp, err := wire.DecodeJoinGameResponse(payload)
	require.NoError(t, err)
	require.Equal(t, []uint8{1, 2}, resp.ParticipantIds)
}

func TestJoinGameIsIdempotentForAlreadyAssignedConnection(t *testing.T) {
	h := newTestHandlers(t)
	req := wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 1})

	first, err := h.HandleJoinGameRequest(0, req)
	require.NoError(t, err)
	second, err := h.HandleJoinGameRequest(0, req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestJoinGameRejectsInvalidLocalPlayerCount(t *testing.T) {
	h := newTestHandlers(t)
	_, err := h.HandleJoinGameRequest(0, wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 0}))
	require.ErrorIs(t, err, ErrInvalidLocalPlayerCount)

	_, err = h.HandleJoinGameRequest(0, wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: limits.MaxLocalPlayers + 1}))
	require.ErrorIs(t, err, ErrInvalidLocalPlayerCount)
}

func TestGameStepRejectsUnjoinedConnection(t *testing.T) {
	h := newTestHandlers(t)
	req, err := wire.EncodeGameStepRequest(wire.GameStepRequest{})
	require.NoError(t, err)
	_, _, err = h.HandleGameStep(0, req)
	require.ErrorIs(t, err, ErrNotJoined)
}

func TestGameStepComposesAndReturnsAuthoritativeStepsFromTheSameRequest(t *testing.T) {
	h := newTestHandlers(t)
	joinPayload, err := h.HandleJoinGameRequest(0, wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 1}))
	require.NoError(t, err)
	joinResp, err := wire.DecodeJoinGameResponse(joinPayload)
	require.NoError(t, err)
	participantId := joinResp.ParticipantIds[0]

	req, err := wire.EncodeGameStepRequest(wire.GameStepRequest{
		WaitingForStepId:     0,
		FirstPredictedStepId: 0,
		Steps: []wire.CombinedStep{
			{{ParticipantId: participantId, Bytes: []byte{0x01}}},
			{{ParticipantId: participantId, Bytes: []byte{0x02}}},
			{{ParticipantId: participantId, Bytes: []byte{0x03}}},
		},
	})
	require.NoError(t, err)

	respPayload, result, err := h.HandleGameStep(0, req)
	require.NoError(t, err)
	require.Equal(t, 3, result.AdvanceCount)

	resp, err := wire.DecodeGameStepResponse(respPayload)
	require.NoError(t, err)
	require.Equal(t, uint32(0), resp.StartStepId)
	require.Len(t, resp.Steps, 3)
	require.Equal(t, []byte{0x01}, resp.Steps[0][0].Bytes)
	require.Equal(t, []byte{0x02}, resp.Steps[1][0].Bytes)
	require.Equal(t, []byte{0x03}, resp.Steps[2][0].Bytes)

	conn, ok := h.participants.FindByTransportConnectionId(0)
	require.True(t, ok)
	require.Equal(t, stepid.StepId(3), conn.Steps.ExpectedWriteId())
}

func TestDownloadGameStateRequestReturnsVersionMismatch(t *testing.T) {
	h := newTestHandlers(t)
	req := wire.EncodeDownloadGameStateRequest(wire.DownloadGameStateRequest{ClientRequestId: 3, ApplicationVersion: 999})
	payload, err := h.HandleDownloadGameStateRequest(0, req)
	require.NoError(t, err)
	resp, err := wire.DecodeDownloadGameStateResponse(payload)
	require.NoError(t, err)
	require.True(t, resp.VersionMismatch)
	require.EqualValues(t, 3, resp.ClientRequestId)
}

func TestDownloadGameStateRequestAllocatesChannelAndStreamsChunks(t *testing.T) {
	h := newTestHandlers(t)
	req := wire.EncodeDownloadGameStateRequest(wire.DownloadGameStateRequest{ClientRequestId: 1, ApplicationVersion: 7})
	payload, err := h.HandleDownloadGameStateRequest(0, req)
	require.NoError(t, err)

	resp, err := wire.DecodeDownloadGameStateResponse(payload)
	require.NoError(t, err)
	require.False(t, resp.VersionMismatch)
	require.EqualValues(t, 127, resp.BlobChannel)
	require.EqualValues(t, len("snapshot"), resp.TotalOctetCount)

	ackPayload := wire.EncodeDownloadGameStateStatus(wire.DownloadGameStateStatus{BlobChannel: resp.BlobChannel})
	chunkPayload, err := h.HandleDownloadGameStateStatus(0, ackPayload)
	require.NoError(t, err)
	require.NotNil(t, chunkPayload)

	chunk, err := wire.DecodeBlobChunk(chunkPayload)
	require.NoError(t, err)
	require.True(t, chunk.IsLast)
	require.Equal(t, []byte("snapshot"), chunk.Payload)

	tc := h.transportConns.Get(0)
	require.False(t, tc.BlobStreamOutActive)
}
