package handler

import (
	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/composer"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/steps"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// HandleGameStep ingests whatever prefix of the client's predicted-step
// window is contiguous with this connection's ring, then composes as
// many authoritative steps as are now ready across every connection
// before answering with the authoritative steps the client asked to
// wait for. Composing inline, rather than once per update tick, means
// the response to a GameStep request can itself carry the authoritative
// step produced from that same request's own predicted input.
func (h *Handlers) HandleGameStep(transportConnIndex uint8, payload []byte) ([]byte, composer.Result, error) {
	req, err := wire.DecodeGameStepRequest(payload)
	if err != nil {
		return nil, composer.Result{}, errors.Wrap(err, "decode game step request")
	}

	conn, ok := h.participants.FindByTransportConnectionId(transportConnIndex)
	if !ok {
		return nil, composer.Result{}, ErrNotJoined
	}

	if _, err := h.game.DiscardIfBufferFull(); err != nil {
		return nil, composer.Result{}, errors.Wrap(err, "discard if buffer full")
	}

	id := stepid.StepId(req.FirstPredictedStepId)
	for _, step := range req.Steps {
		if stepid.Before(id, conn.Steps.ExpectedWriteId()) {
			id = stepid.Add(id, 1)
			continue
		}
		if id != conn.Steps.ExpectedWriteId() {
			break
		}
		body, err := wire.EncodeCombinedStepBody(step)
		if err != nil {
			return nil, composer.Result{}, errors.Wrap(err, "encode predicted step")
		}
		if err := conn.Steps.Write(id, body); err != nil {
			if errors.Is(err, steps.ErrStoreFull) {
				break
			}
			return nil, composer.Result{}, errors.Wrap(err, "write predicted step")
		}
		conn.IncomingStepCountInBufferStats.Add(conn.Steps.StepsCount())
		id = stepid.Add(id, 1)
	}

	result, err := composer.Compose(h.game, h.participants.InUse())
	if err != nil {
		return nil, composer.Result{}, errors.Wrap(err, "compose authoritative steps")
	}

	from := stepid.StepId(req.WaitingForStepId)
	ranges := h.game.AuthoritativeSteps.ReadRange(from, limits.DefaultWindowSize)
	if len(ranges) == 0 {
		resp, err := wire.EncodeGameStepResponse(wire.GameStepResponse{StartStepId: uint32(from)})
		return resp, result, errors.Wrap(err, "encode game step response")
	}

	combinedSteps := make([]wire.CombinedStep, 0, len(ranges))
	for _, r := range ranges {
		step, err := wire.DecodeCombinedStepBody(r.Payload)
		if err != nil {
			return nil, result, errors.Wrap(err, "decode authoritative step")
		}
		combinedSteps = append(combinedSteps, step)
	}

	resp, err := wire.EncodeGameStepResponse(wire.GameStepResponse{
		StartStepId: uint32(ranges[0].Id),
		Steps:       combinedSteps,
	})
	return resp, result, errors.Wrap(err, "encode game step response")
}
