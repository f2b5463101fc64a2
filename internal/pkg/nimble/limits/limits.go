// Package limits collects the resource caps preallocated at server
// construction time, so every package that needs one of them imports a
// single, dependency-free source of truth instead of redeclaring magic
// numbers.
package limits

const (
	// DefaultWindowSize is NBS_WINDOW_SIZE, the default capacity of a
	// per-connection predicted-step ring and the authoritative step ring.
	DefaultWindowSize = 64

	// MaxLocalPlayers is the maximum number of participants one
	// transport connection may host (MAX_LOCAL_PLAYERS).
	MaxLocalPlayers = 4

	// MaxConnectionCount is the hard cap on simultaneous transport
	// connections, encoded by the 8-bit connection index.
	MaxConnectionCount = 64

	// MaxParticipantCount is the hard cap on simultaneously registered
	// participants (1..255, 0 is reserved as "empty").
	MaxParticipantCount = 255

	// MaxSingleParticipantStepOctetCount is the hard cap on one
	// participant's per-tick payload size.
	MaxSingleParticipantStepOctetCount = 24

	// MaxGameStateOctetCount is the hard cap on a serialized game state
	// snapshot.
	MaxGameStateOctetCount = 65535

	// ForcedStepDisconnectThreshold is the number of consecutive forced
	// steps after which a connection becomes eligible for server-initiated
	// disconnect.
	ForcedStepDisconnectThreshold = 60

	// ReasonableStepsToCatchUpForJoiners is the tick-count threshold past
	// which a joiner cannot plausibly catch up by replaying steps alone,
	// and mustProvideGameState starts returning true.
	ReasonableStepsToCatchUpForJoiners = 80

	// MaxDatagramsPerUpdate bounds how many datagrams a single update()
	// call drains from the transport, so a flood cannot starve the loop.
	MaxDatagramsPerUpdate = 32

	// MaxDatagramOctetCount is the MTU ceiling for any single datagram.
	MaxDatagramOctetCount = 1200

	// AuthoritativeBufferFullFraction: once the authoritative step ring
	// holds more than DefaultWindowSize/AuthoritativeBufferFullFraction
	// steps, the oldest excess is discarded before ingesting new input.
	AuthoritativeBufferFullFraction = 3

	// StatsWindowMs is the wall-clock window over which per-second stats
	// counters roll.
	StatsWindowMs = 1000

	// StatsLogEveryUpdates is how many update() calls elapse between
	// stats log lines.
	StatsLogEveryUpdates = 3000

	// InitialBlobStreamOutChannel is the first channel id handed out for
	// an outbound blob stream; channel ids count down from here.
	InitialBlobStreamOutChannel = 127
)
