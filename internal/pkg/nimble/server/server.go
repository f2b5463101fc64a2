// Package server implements the authoritative server core: a
// single-threaded, cooperative, non-blocking pump that drains inbound
// datagrams, dispatches them to request handlers, advances the
// authoritative simulation through the step composer, and reports
// rolling diagnostics. It never waits for inbound datagrams: the caller
// decides the tick rate by how often it calls Update. An attached
// spectator hub (WithSpectatorHub) is written to synchronously.
package server

import (
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/blobstream"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/game"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/handler"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/participant"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/spectator"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stats"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transport"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transportconn"
)

// Server is the authoritative lockstep server core.
type Server struct {
	game           *game.Game
	participants   *participant.Pool
	transportConns *transportconn.Pool
	channels       *blobstream.ChannelAllocator
	handlers       *handler.Handlers
	transport      transport.Transport
	spectators     *spectator.Hub

	addrIndex map[string]uint8
	indexAddr []net.Addr

	maxConnectionCount                 int
	maxParticipantCount                int
	maxSingleParticipantStepOctetCount int

	pendingHandlerCfgs []handler.Cfg

	updateCount int

	composedStepsPerSecond *stats.PerSecond
	datagramsInPerSecond   *stats.PerSecond
	datagramsOutPerSecond  *stats.PerSecond

	log *logrus.Entry
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithTransport sets the datagram transport the server reads from and
// writes to.
func WithTransport(t transport.Transport) Cfg {
	return func(s *Server) error {
		s.transport = t
		return nil
	}
}

// WithApplicationVersion sets the version DownloadGameStateRequest is
// checked against.
func WithApplicationVersion(version uint32) Cfg {
	return func(s *Server) error {
		return WithHandlerCfg(handler.WithApplicationVersion(version))(s)
	}
}

// WithMaxConnectionCount overrides the default transport connection cap.
func WithMaxConnectionCount(n int) Cfg {
	return func(s *Server) error {
		s.maxConnectionCount = n
		return nil
	}
}

// WithMaxParticipantCount overrides the default participant cap.
func WithMaxParticipantCount(n int) Cfg {
	return func(s *Server) error {
		s.maxParticipantCount = n
		return nil
	}
}

// WithMaxSingleParticipantStepOctetCount overrides the default per-tick
// per-participant payload cap.
func WithMaxSingleParticipantStepOctetCount(n int) Cfg {
	return func(s *Server) error {
		s.maxSingleParticipantStepOctetCount = n
		return nil
	}
}

// ResourceCaps bundles the preallocated resource limits required at
// construction time.
type ResourceCaps struct {
	MaxConnectionCount                 int
	MaxParticipantCount                int
	MaxSingleParticipantStepOctetCount int
}

// WithResourceCaps applies every non-zero field of caps, letting callers
// load the whole bundle from one config source (see internal/app/cfg)
// instead of chaining one Cfg per field.
func WithResourceCaps(caps ResourceCaps) Cfg {
	return func(s *Server) error {
		if caps.MaxConnectionCount > 0 {
			s.maxConnectionCount = caps.MaxConnectionCount
		}
		if caps.MaxParticipantCount > 0 {
			s.maxParticipantCount = caps.MaxParticipantCount
		}
		if caps.MaxSingleParticipantStepOctetCount > 0 {
			s.maxSingleParticipantStepOctetCount = caps.MaxSingleParticipantStepOctetCount
		}
		return nil
	}
}

// WithLogger sets the logger used for server-level diagnostics.
func WithLogger(log *logrus.Entry) Cfg {
	return func(s *Server) error {
		s.log = log
		return nil
	}
}

// WithSpectatorHub attaches a spectator feed that every newly composed
// authoritative step is broadcast to, synchronously within the request
// handling that composed it. Optional; nil by default.
func WithSpectatorHub(hub *spectator.Hub) Cfg {
	return func(s *Server) error {
		s.spectators = hub
		return nil
	}
}

// WithHandlerCfg queues a handler.Cfg to be applied once the server's own
// dependencies (game, pools, channel allocator) have been constructed.
func WithHandlerCfg(cfg handler.Cfg) Cfg {
	return func(s *Server) error {
		s.pendingHandlerCfgs = append(s.pendingHandlerCfgs, cfg)
		return nil
	}
}

// New creates a Server from cfgs.
func New(cfgs ...Cfg) (*Server, error) {
	s := &Server{
		addrIndex:                          make(map[string]uint8),
		maxConnectionCount:                 limits.MaxConnectionCount,
		maxParticipantCount:                limits.MaxParticipantCount,
		maxSingleParticipantStepOctetCount: limits.MaxSingleParticipantStepOctetCount,
		log:                                logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, cfg := range cfgs {
		if err := cfg(s); err != nil {
			return nil, errors.Wrap(err, "apply server cfg")
		}
	}
	if s.transport == nil {
		return nil, errors.Wrap(ErrMissingDependency, "transport")
	}
	if s.maxConnectionCount > limits.MaxConnectionCount {
		return nil, errors.Wrapf(ErrResourceCapExceeded, "maxConnectionCount %d exceeds %d", s.maxConnectionCount, limits.MaxConnectionCount)
	}
	if s.maxSingleParticipantStepOctetCount > limits.MaxSingleParticipantStepOctetCount {
		return nil, errors.Wrapf(ErrResourceCapExceeded, "maxSingleParticipantStepOctetCount %d exceeds %d", s.maxSingleParticipantStepOctetCount, limits.MaxSingleParticipantStepOctetCount)
	}

	startId := stepid.StepId(0)
	s.game = game.New(s.maxParticipantCount, s.maxSingleParticipantStepOctetCount, startId)
	// A connection's predicted-step ring stores one combined body per
	// tick, covering every local player it hosts, so its cap must be
	// sized the same way Game sizes the authoritative ring.
	maxCombinedPerConnection := limits.MaxLocalPlayers*(s.maxSingleParticipantStepOctetCount+2) + 1
	s.participants = participant.NewPool(s.maxConnectionCount, limits.MaxLocalPlayers, maxCombinedPerConnection)
	s.transportConns = transportconn.NewPool(s.maxConnectionCount)
	s.channels = blobstream.NewChannelAllocator()
	s.indexAddr = make([]net.Addr, s.maxConnectionCount)

	now := time.Now()
	s.composedStepsPerSecond = stats.NewPerSecond(now, limits.StatsWindowMs)
	s.datagramsInPerSecond = stats.NewPerSecond(now, limits.StatsWindowMs)
	s.datagramsOutPerSecond = stats.NewPerSecond(now, limits.StatsWindowMs)

	handlerCfgs := append([]handler.Cfg{
		handler.WithGame(s.game),
		handler.WithParticipantPool(s.participants),
		handler.WithTransportConnPool(s.transportConns),
		handler.WithChannelAllocator(s.channels),
		handler.WithLogger(s.log),
	}, s.pendingHandlerCfgs...)
	h, err := handler.New(handlerCfgs...)
	if err != nil {
		return nil, errors.Wrap(err, "create handlers")
	}
	s.handlers = h

	return s, nil
}

// Game returns the server's authoritative Game, for installing an initial
// snapshot before serving traffic.
func (s *Server) Game() *game.Game { return s.game }

// Status snapshots the server's rolling diagnostics, for consumption by
// the admin introspection surface.
type Status struct {
	ConnectionCount        int
	ParticipantCount       int
	ComposedStepsPerSecond float64
	DatagramsInPerSecond   float64
	DatagramsOutPerSecond  float64
}

// Status returns the server's current Status snapshot.
func (s *Server) Status() Status {
	return Status{
		ConnectionCount:        len(s.transportConns.InUse()),
		ParticipantCount:       len(s.participants.InUse()),
		ComposedStepsPerSecond: s.composedStepsPerSecond.Rate(),
		DatagramsInPerSecond:   s.datagramsInPerSecond.Rate(),
		DatagramsOutPerSecond:  s.datagramsOutPerSecond.Rate(),
	}
}
