package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombinedStepRoundTrip(t *testing.T) {
	step := CombinedStep{
		{ParticipantId: 1, Bytes: []byte{0xAA, 0xBB}},
		{ParticipantId: 2, Bytes: []byte{0xCC}},
	}
	req := GameStepRequest{
		WaitingForStepId:     0x100,
		FirstPredictedStepId: 0x100,
		Steps:                []CombinedStep{step},
	}
	encoded, err := EncodeGameStepRequest(req)
	require.NoError(t, err)

	decoded, err := DecodeGameStepRequest(encoded)
	require.NoError(t, err)
	require.Equal(t, req.WaitingForStepId, decoded.WaitingForStepId)
	require.Equal(t, req.FirstPredictedStepId, decoded.FirstPredictedStepId)
	require.Equal(t, req.Steps, decoded.Steps)
}

func TestGameStepResponseRoundTrip(t *testing.T) {
	resp := GameStepResponse{
		StartStepId: 0x100,
		Steps: []CombinedStep{
			{{ParticipantId: 1, Bytes: []byte{0xAA}}},
			{{ParticipantId: 1, Bytes: []byte{0xBB}}},
			{{ParticipantId: 1, Bytes: []byte{0xCC}}},
		},
	}
	encoded, err := EncodeGameStepResponse(resp)
	require.NoError(t, err)
	decoded, err := DecodeGameStepResponse(encoded)
	require.NoError(t, err)
	require.Equal(t, resp, decoded)
}

func TestJoinGameRoundTrip(t *testing.T) {
	reqEncoded := EncodeJoinGameRequest(JoinGameRequest{LocalPlayerCount: 2})
	req, err := DecodeJoinGameRequest(reqEncoded)
	require.NoError(t, err)
	require.Equal(t, uint8(2), req.LocalPlayerCount)

	resp := JoinGameResponse{ParticipantIds: []uint8{1, 2}}
	resp.SessionNonce[0] = 0xFE
	encoded, err := EncodeJoinGameResponse(resp)
	require.NoError(t, err)
	decoded, err := DecodeJoinGameResponse(encoded)
	require.NoError(t, err)
	require.Equal(t, resp, decoded)
}

func TestDownloadGameStateRoundTrip(t *testing.T) {
	req := DownloadGameStateRequest{ClientRequestId: 9, ApplicationVersion: 7}
	decodedReq, err := DecodeDownloadGameStateRequest(EncodeDownloadGameStateRequest(req))
	require.NoError(t, err)
	require.Equal(t, req, decodedReq)

	resp := DownloadGameStateResponse{ClientRequestId: 9, BlobChannel: 127, TotalOctetCount: 2, StepId: 0x151}
	decodedResp, err := DecodeDownloadGameStateResponse(EncodeDownloadGameStateResponse(resp))
	require.NoError(t, err)
	require.Equal(t, resp, decodedResp)

	status := DownloadGameStateStatus{BlobChannel: 127, ReceivedOctetCount: 2}
	decodedStatus, err := DecodeDownloadGameStateStatus(EncodeDownloadGameStateStatus(status))
	require.NoError(t, err)
	require.Equal(t, status, decodedStatus)
}

func TestHeaderRoundTrip(t *testing.T) {
	datagram := WriteHeader(5, CmdGameStep, []byte{1, 2, 3})
	seq, cmd, payload, err := SplitHeader(datagram)
	require.NoError(t, err)
	require.Equal(t, uint8(5), seq)
	require.Equal(t, CmdGameStep, cmd)
	require.Equal(t, []byte{1, 2, 3}, payload)
}

func TestSplitHeaderTooShort(t *testing.T) {
	_, _, _, err := SplitHeader([]byte{1, 2})
	require.ErrorIs(t, err, ErrShortDatagram)
}
