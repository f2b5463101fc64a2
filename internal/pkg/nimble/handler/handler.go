// Package handler implements the per-command request logic invoked once
// an authoritative-transport datagram has passed its OrderedDatagramCodec
// and been routed to a TransportConnection. It never touches the
// transport itself; it takes decoded payloads in and hands encoded
// payloads back, keeping wire decoding, session lookups, and response
// assembly in one place.
package handler

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/game"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transportconn"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// Handlers holds every dependency the request handlers need: the
// authoritative game, the participant-connection and transport-connection
// pools, and the blob-stream channel allocator.
type Handlers struct {
	game                *game.Game
	participants        *participant.Pool
	transportConns      *transportconn.Pool
	channels            *blobstream.ChannelAllocator
	applicationVersion  uint32
	blobChunkOctetCount int
	log                 *logrus.Entry
}

// Cfg configures a Handlers.
type Cfg func(*Handlers) error

// WithGame sets the authoritative game.
func WithGame(g *game.Game) Cfg {
	return func(h *Handlers) error {
		h.game = g
		return nil
	}
}

// WithParticipantPool sets the participant-connection pool.
func WithParticipantPool(p *participant.Pool) Cfg {
	return func(h *Handlers) error {
		h.participants = p
		return nil
	}
}

// WithTransportConnPool sets the transport-connection pool.
func WithTransportConnPool(p *transportconn.Pool) Cfg {
	return func(h *Handlers) error {
		h.transportConns = p
		return nil
	}
}

// WithChannelAllocator sets the blob-stream channel allocator.
func WithChannelAllocator(a *blobstream.ChannelAllocator) Cfg {
	return func(h *Handlers) error {
		h.channels = a
		return nil
	}
}

// WithApplicationVersion sets the version DownloadGameStateRequest is
// checked against.
func WithApplicationVersion(version uint32) Cfg {
	return func(h *Handlers) error {
		h.applicationVersion = version
		return nil
	}
}

// WithBlobChunkOctetCount overrides the default per-datagram blob chunk
// size.
func WithBlobChunkOctetCount(n int) Cfg {
	return func(h *Handlers) error {
		h.blobChunkOctetCount = n
		return nil
	}
}

// WithLogger sets the logger used for handler-level diagnostics.
func WithLogger(log *logrus.Entry) Cfg {
	return func(h *Handlers) error {
		h.log = log
		return nil
	}
}

// New creates a Handlers from cfgs.
func New(cfgs ...Cfg) (*Handlers, error) {
	h := &Handlers{
		blobChunkOctetCount: limits.MaxDatagramOctetCount - wire.HeaderSize - 6,
		log:                 logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply handler cfg")
		}
	}
	if h.game == nil || h.participants == nil || h.transportConns == nil || h.channels == nil {
		return nil, errors.New("handler: missing required dependency")
	}
	return h, nil
}

func participantIds(conn *participant.Connection) []uint8 {
	ids := make([]uint8, len(conn.ParticipantRefs))
	for i, p := range conn.ParticipantRefs {
		ids[i] = p.Id
	}
	return ids
}
