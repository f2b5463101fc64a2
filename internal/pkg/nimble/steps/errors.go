package steps

import "github.com/pkg/errors"

// ErrWrongWriteId is returned when a write is attempted at a StepId other
// than the store's expectedWriteId.
var ErrWrongWriteId = errors.New("write id does not match expected write id")

// ErrStoreFull is returned when a write is attempted but the store has
// already reached capacity.
var ErrStoreFull = errors.New("store is at capacity")

// ErrPayloadTooLarge is returned when a write payload exceeds the
// configured maximum octet count.
var ErrPayloadTooLarge = errors.New("payload exceeds maximum octet count")

// ErrReadBeforeWindow is returned when a read is attempted for a StepId
// older than expectedReadId.
var ErrReadBeforeWindow = errors.New("step id is older than the oldest stored step")

// ErrReadAfterWindow is returned when a read is attempted for a StepId
// that has not been written yet.
var ErrReadAfterWindow = errors.New("step id has not been written yet")

// ErrDiscardTooMany is returned when discardCount would advance past the
// newest stored step.
var ErrDiscardTooMany = errors.New("cannot discard more steps than are stored")
