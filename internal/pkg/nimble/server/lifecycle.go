package server

import (
	"net"

	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

// SetGameState installs a new authoritative snapshot without disturbing
// any in-progress connection state.
func (s *Server) SetGameState(gameState []byte, id stepid.StepId) {
	s.game.SetGameState(gameState, id)
}

// MustProvideGameState reports whether a newly joining connection can no
// longer plausibly catch up by replaying the authoritative step ring
// alone and must instead be sent a fresh snapshot.
func (s *Server) MustProvideGameState() bool {
	return s.game.MustProvideGameState()
}

// ReInitWithGame resets the authoritative step ring to start at id,
// installs gameState as the latest snapshot, and drops every connection
// and participant, since the old ones no longer refer to a valid tick in
// the new ring. It refuses to run while any connection is mid-transfer on
// an outbound state snapshot, since that transfer reads the very state
// this call is about to discard.
func (s *Server) ReInitWithGame(gameState []byte, id stepid.StepId) error {
	for _, tc := range s.transportConns.InUse() {
		if tc.BlobStreamOutActive {
			return errors.Wrapf(ErrBlobStreamActive, "transport conn %d", tc.TransportConnectionId)
		}
	}

	s.game.ReinitWithState(gameState, id)
	s.participants.ResetAll()
	s.transportConns.ResetAll()
	s.channels = blobstream.NewChannelAllocator()
	s.addrIndex = make(map[string]uint8)
	s.indexAddr = make([]net.Addr, s.maxConnectionCount)
	return nil
}

// Reset is a placeholder for a full process teardown, left unimplemented
// since nothing in this codebase has needed one yet: callers that want a
// clean restart should construct a fresh Server instead.
func (s *Server) Reset() {}
