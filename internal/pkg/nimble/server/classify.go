package server

import (
	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/handler"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/steps"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// isErrorExternal classifies a dispatch error: a failed decode, a
// malformed request, or a resource exhausted by client demand is the
// client's fault and gets logged quietly; anything else is a programmer
// error worth raising the log level for, even though the single-threaded
// pump keeps running either way.
func isErrorExternal(err error) bool {
	externalCauses := []error{
		wire.ErrTruncated,
		wire.ErrShortDatagram,
		handler.ErrNotJoined,
		handler.ErrInvalidLocalPlayerCount,
		handler.ErrUnknownTransportConnection,
		participant.ErrPoolFull,
		participant.ErrTooManyParticipants,
		participant.ErrNotFound,
		steps.ErrStoreFull,
		steps.ErrPayloadTooLarge,
		steps.ErrWrongWriteId,
		blobstream.ErrChannelsExhausted,
		ErrTooManyConnections,
		ErrUnknownCommand,
	}
	for _, cause := range externalCauses {
		if errors.Is(err, cause) {
			return true
		}
	}
	return false
}
