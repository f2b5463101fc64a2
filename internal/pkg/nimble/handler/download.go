package handler

import (
	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transportconn"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// HandleDownloadGameStateRequest runs the snapshot download handshake:
// on a version match it allocates a blob-stream channel and starts
// streaming the latest snapshot over it; on a mismatch it answers
// immediately with VersionMismatch set and allocates nothing.
func (h *Handlers) HandleDownloadGameStateRequest(transportConnIndex uint8, payload []byte) ([]byte, error) {
	req, err := wire.DecodeDownloadGameStateRequest(payload)
	if err != nil {
		return nil, errors.Wrap(err, "decode download game state request")
	}

	tc := h.transportConns.Get(transportConnIndex)
	if tc == nil {
		return nil, ErrUnknownTransportConnection
	}

	if req.ApplicationVersion != h.applicationVersion {
		return wire.EncodeDownloadGameStateResponse(wire.DownloadGameStateResponse{
			ClientRequestId: req.ClientRequestId,
			VersionMismatch: true,
		}), nil
	}

	channel, err := h.channels.Allocate()
	if err != nil {
		return nil, errors.Wrap(err, "allocate blob stream channel")
	}

	tc.BlobStreamOutChannel = channel
	tc.BlobStreamOutActive = true
	tc.BlobStreamOutClientRequestId = req.ClientRequestId
	tc.BlobStreamOut = blobstream.NewOut(channel, h.game.LatestState.Bytes, h.blobChunkOctetCount)
	tc.Phase = transportconn.PhaseInitialStateDetermined
	tc.NextAuthoritativeStepIdToSend = h.game.LatestState.StepId

	return wire.EncodeDownloadGameStateResponse(wire.DownloadGameStateResponse{
		ClientRequestId: req.ClientRequestId,
		BlobChannel:     channel,
		TotalOctetCount: uint32(len(h.game.LatestState.Bytes)),
		StepId:          uint32(h.game.LatestState.StepId),
	}), nil
}

// HandleDownloadGameStateStatus implements the client's chunk-progress
// ack: it hands back the next unsent chunk of the connection's
// in-flight blob stream, or nil once the stream is exhausted.
func (h *Handlers) HandleDownloadGameStateStatus(transportConnIndex uint8, payload []byte) ([]byte, error) {
	status, err := wire.DecodeDownloadGameStateStatus(payload)
	if err != nil {
		return nil, errors.Wrap(err, "decode download game state status")
	}

	tc := h.transportConns.Get(transportConnIndex)
	if tc == nil {
		return nil, ErrUnknownTransportConnection
	}
	if !tc.BlobStreamOutActive || tc.BlobStreamOut == nil || tc.BlobStreamOutChannel != status.BlobChannel {
		return nil, nil
	}

	chunk, ok := tc.BlobStreamOut.Next()
	if !ok {
		h.closeBlobStreamOut(tc)
		return nil, nil
	}
	if chunk.IsLast {
		h.closeBlobStreamOut(tc)
	}
	return wire.EncodeBlobChunk(chunk), nil
}

func (h *Handlers) closeBlobStreamOut(tc *transportconn.Connection) {
	h.channels.Release(tc.BlobStreamOutChannel)
	tc.BlobStreamOutActive = false
	tc.BlobStreamOut = nil
}
