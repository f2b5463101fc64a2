// Package composer walks the heads of every in-use ParticipantConnection's
// predicted-step ring and assembles one authoritative step per eligible
// tick, fabricating a forced (zero-input) step for any connection with
// nothing queued.
package composer

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/game"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// EmittedStep is one authoritative step produced during a Compose call,
// for callers that want to observe them beyond the authoritative ring
// (e.g. the spectator feed).
type EmittedStep struct {
	Id   stepid.StepId
	Body []byte
}

// Result summarizes one Compose invocation.
type Result struct {
	// AdvanceCount is the number of authoritative steps produced.
	AdvanceCount int
	// Emitted holds every step produced this call, in ascending order.
	Emitted []EmittedStep
	// Disconnect lists connections whose forcedStepInRowCounter crossed
	// limits.ForcedStepDisconnectThreshold during this call. The caller
	// is responsible for actually releasing them.
	Disconnect []*participant.Connection
}

// Compose produces as many authoritative steps as the connections'
// queued predicted steps allow, stopping once the authoritative ring is
// full or no in-use connection has anything new to contribute.
func Compose(g *game.Game, connections []*participant.Connection) (Result, error) {
	var result Result

	for {
		if g.AuthoritativeSteps.StepsCount() >= g.AuthoritativeSteps.Capacity() {
			break
		}

		T := g.AuthoritativeSteps.ExpectedWriteId()

		var combined wire.CombinedStep
		var contributed []*participant.Connection
		var forced []*participant.Connection
		anyHasStep := false

		for _, conn := range connections {
			if !conn.IsUsed {
				continue
			}
			body, id, ok := conn.Steps.Peek()
			if ok && id == T {
				anyHasStep = true
				step, err := wire.DecodeCombinedStepBody(body)
				if err != nil {
					return result, errors.Wrap(err, "decode stored predicted step")
				}
				combined = append(combined, step...)
				contributed = append(contributed, conn)
				continue
			}
			for _, p := range conn.ParticipantRefs {
				combined = append(combined, wire.ParticipantStep{ParticipantId: p.Id, Bytes: nil})
			}
			forced = append(forced, conn)
		}

		if !anyHasStep {
			break
		}

		sort.Slice(combined, func(i, j int) bool { return combined[i].ParticipantId < combined[j].ParticipantId })

		body, err := wire.EncodeCombinedStepBody(combined)
		if err != nil {
			return result, errors.Wrap(err, "encode authoritative step")
		}
		if err := g.AuthoritativeSteps.Write(T, body); err != nil {
			return result, errors.Wrap(err, "write authoritative step")
		}

		for _, conn := range contributed {
			if err := conn.Steps.DiscardCount(1); err != nil {
				return result, errors.Wrap(err, "advance contributing connection's read pointer")
			}
			conn.ForcedStepInRowCounter = 0
		}
		for _, conn := range forced {
			conn.ForcedStepInRowCounter++
			if conn.ForcedStepInRowCounter > limits.ForcedStepDisconnectThreshold {
				result.Disconnect = append(result.Disconnect, conn)
			}
		}

		result.AdvanceCount++
		result.Emitted = append(result.Emitted, EmittedStep{Id: T, Body: body})
	}

	return result, nil
}
