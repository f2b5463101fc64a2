package participant

import "github.com/pkg/errors"

// ErrPoolFull is returned when Create is called but every slot is in use.
var ErrPoolFull = errors.New("participant connection pool is full")

// ErrTooManyParticipants is returned when a join requests more local
// players than MaxLocalPlayers or than the remaining global capacity.
var ErrTooManyParticipants = errors.New("too many participants requested")

// ErrNotFound is returned when a lookup by transport connection id or
// slot id finds nothing in use.
var ErrNotFound = errors.New("participant connection not found")
