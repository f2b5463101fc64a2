package handler

import (
	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// HandleJoinGameRequest runs the join handshake: it allocates a
// ParticipantConnection and one Participant per requested local player
// slot, and assigns the result to transportConnIndex.
//
// A second JoinGameRequest from an already-assigned connection is
// idempotent: it returns the same participant ids and session nonce
// rather than allocating again, tolerating a retransmitted request.
func (h *Handlers) HandleJoinGameRequest(transportConnIndex uint8, payload []byte) ([]byte, error) {
	req, err := wire.DecodeJoinGameRequest(payload)
	if err != nil {
		return nil, errors.Wrap(err, "decode join game request")
	}
	if req.LocalPlayerCount == 0 || int(req.LocalPlayerCount) > limits.MaxLocalPlayers {
		return nil, errors.Wrapf(ErrInvalidLocalPlayerCount, "got %d", req.LocalPlayerCount)
	}

	tc := h.transportConns.Get(transportConnIndex)
	if tc == nil {
		return nil, ErrUnknownTransportConnection
	}

	if conn, ok := h.participants.FindByTransportConnectionId(transportConnIndex); ok {
		return wire.EncodeJoinGameResponse(wire.JoinGameResponse{
			ParticipantIds: participantIds(conn),
			SessionNonce:   [16]byte(conn.SessionNonce),
		})
	}

	conn, err := h.participants.Create(transportConnIndex, h.game.AuthoritativeSteps.ExpectedWriteId())
	if err != nil {
		return nil, errors.Wrap(err, "create participant connection")
	}
	for i := uint8(0); i < req.LocalPlayerCount; i++ {
		p, err := h.game.Participants.Allocate(i)
		if err != nil {
			h.releasePartialJoin(conn)
			return nil, errors.Wrap(err, "allocate participant")
		}
		conn.ParticipantRefs = append(conn.ParticipantRefs, p)
	}

	tc.AssignedParticipantConnection = conn

	return wire.EncodeJoinGameResponse(wire.JoinGameResponse{
		ParticipantIds: participantIds(conn),
		SessionNonce:   [16]byte(conn.SessionNonce),
	})
}

func (h *Handlers) releasePartialJoin(conn *participant.Connection) {
	for _, p := range conn.ParticipantRefs {
		h.game.Participants.Release(p.Id)
	}
	h.participants.Release(conn)
}
