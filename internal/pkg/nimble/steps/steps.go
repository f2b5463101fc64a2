// Package steps implements the dense, fixed-capacity ring buffer of
// opaque per-tick payloads shared by every per-connection predicted-step
// buffer and the game's authoritative step buffer.
//
// The ring never stores gaps: a tick that has nothing to contribute is
// never written as a hole, it is simply not written at all until the
// composer decides what (if anything) to synthesize for it.
package steps

import (
	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

// Store is a fixed-capacity ring buffer of opaque step payloads keyed by
// a monotonically increasing StepId.
type Store struct {
	capacity        int
	maxOctetCount   int
	expectedReadId  stepid.StepId
	expectedWriteId stepid.StepId
	stepsCount      int
	buf             [][]byte
}

// New creates a Store with the given ring capacity and maximum payload
// octet count per entry, initialized to startId.
func New(capacity, maxOctetCount int, startId stepid.StepId) *Store {
	s := &Store{
		capacity:      capacity,
		maxOctetCount: maxOctetCount,
		buf:           make([][]byte, capacity),
	}
	s.Reinit(startId)
	return s
}

// Reinit resets the store to empty, starting at startId.
func (s *Store) Reinit(startId stepid.StepId) {
	s.expectedReadId = startId
	s.expectedWriteId = startId
	s.stepsCount = 0
	for i := range s.buf {
		s.buf[i] = nil
	}
}

// Capacity returns the fixed number of slots in the ring.
func (s *Store) Capacity() int {
	return s.capacity
}

// StepsCount returns the number of steps currently stored.
func (s *Store) StepsCount() int {
	return s.stepsCount
}

// ExpectedReadId returns the StepId of the oldest stored step.
func (s *Store) ExpectedReadId() stepid.StepId {
	return s.expectedReadId
}

// ExpectedWriteId returns the next StepId that may be written.
func (s *Store) ExpectedWriteId() stepid.StepId {
	return s.expectedWriteId
}

// Write appends payload at id, which must equal ExpectedWriteId exactly.
func (s *Store) Write(id stepid.StepId, payload []byte) error {
	if id != s.expectedWriteId {
		return errors.Wrapf(ErrWrongWriteId, "got %08x, expected %08x", uint32(id), uint32(s.expectedWriteId))
	}
	if s.stepsCount >= s.capacity {
		return ErrStoreFull
	}
	if len(payload) > s.maxOctetCount {
		return errors.Wrapf(ErrPayloadTooLarge, "got %d octets, max is %d", len(payload), s.maxOctetCount)
	}
	index := int(s.expectedWriteId) % s.capacity
	s.buf[index] = payload
	s.expectedWriteId = stepid.Add(s.expectedWriteId, 1)
	s.stepsCount++
	return nil
}

// Read returns the payload stored at id.
func (s *Store) Read(id stepid.StepId) ([]byte, error) {
	if stepid.Before(id, s.expectedReadId) {
		return nil, errors.Wrapf(ErrReadBeforeWindow, "requested %08x, oldest is %08x", uint32(id), uint32(s.expectedReadId))
	}
	if !stepid.Before(id, s.expectedWriteId) {
		return nil, errors.Wrapf(ErrReadAfterWindow, "requested %08x, next write is %08x", uint32(id), uint32(s.expectedWriteId))
	}
	index := int(id) % s.capacity
	return s.buf[index], nil
}

// Peek returns the oldest stored step, if any.
func (s *Store) Peek() ([]byte, stepid.StepId, bool) {
	if s.stepsCount == 0 {
		return nil, 0, false
	}
	payload, err := s.Read(s.expectedReadId)
	if err != nil {
		return nil, 0, false
	}
	return payload, s.expectedReadId, true
}

// DiscardCount advances expectedReadId by n, dropping the n oldest steps.
func (s *Store) DiscardCount(n int) error {
	if n < 0 {
		return errors.New("discard count must not be negative")
	}
	if n > s.stepsCount {
		return ErrDiscardTooMany
	}
	for i := 0; i < n; i++ {
		index := int(s.expectedReadId) % s.capacity
		s.buf[index] = nil
		s.expectedReadId = stepid.Add(s.expectedReadId, 1)
	}
	s.stepsCount -= n
	return nil
}

// DiscardUpTo discards every step older than id (id itself is kept).
func (s *Store) DiscardUpTo(id stepid.StepId) error {
	delta := stepid.Delta(id, s.expectedReadId)
	if delta <= 0 {
		return nil
	}
	n := int(delta)
	if n > s.stepsCount {
		n = s.stepsCount
	}
	return s.DiscardCount(n)
}

// Range is a single entry returned by ReadRange.
type Range struct {
	Id      stepid.StepId
	Payload []byte
}

// ReadRange returns up to maxCount steps starting at fromId (clamped to
// what is actually stored).
func (s *Store) ReadRange(fromId stepid.StepId, maxCount int) []Range {
	if stepid.Before(fromId, s.expectedReadId) {
		fromId = s.expectedReadId
	}
	out := make([]Range, 0, maxCount)
	id := fromId
	for len(out) < maxCount && stepid.Before(id, s.expectedWriteId) {
		payload, err := s.Read(id)
		if err != nil {
			break
		}
		out = append(out, Range{Id: id, Payload: payload})
		id = stepid.Add(id, 1)
	}
	return out
}
