// Package ordereddatagram implements the per-direction wrapping sequence
// id carried in byte 0 of every datagram. It rejects reordered or
// duplicated inbound datagrams without any ACK or retransmission:
// predicted-step datagrams carry their own StepId in the payload, so
// staleness at this layer only matters for protocol state, never for
// step content.
package ordereddatagram

// InLogic tracks the expected next inbound sequence id for one connection.
type InLogic struct {
	hasReceivedInitialDatagram bool
	expectedSequenceId         uint8
}

// HasReceivedInitialDatagram reports whether any datagram has been
// accepted yet on this connection.
func (l *InLogic) HasReceivedInitialDatagram() bool {
	return l.hasReceivedInitialDatagram
}

// ExpectedSequenceId returns the sequence id InLogic currently expects.
func (l *InLogic) ExpectedSequenceId() uint8 {
	return l.expectedSequenceId
}

// Accept decides whether a received sequence id should be processed. On
// acceptance it latches the next expected id and returns true; otherwise
// the datagram must be silently dropped.
func (l *InLogic) Accept(received uint8) bool {
	if !l.hasReceivedInitialDatagram {
		l.hasReceivedInitialDatagram = true
		l.expectedSequenceId = received + 1
		return true
	}
	if int8(received-l.expectedSequenceId) < 0 {
		return false
	}
	l.expectedSequenceId = received + 1
	return true
}

// Reset clears InLogic back to its just-constructed state, used when a
// connection's transport-level session is released and may later be
// reused by a new session.
func (l *InLogic) Reset() {
	l.hasReceivedInitialDatagram = false
	l.expectedSequenceId = 0
}

// OutLogic assigns the next outbound sequence id for one connection.
type OutLogic struct {
	nextSequenceIdToSend uint8
}

// Next returns the sequence id to stamp on the next outbound datagram and
// advances the counter, wrapping modulo 256.
func (l *OutLogic) Next() uint8 {
	id := l.nextSequenceIdToSend
	l.nextSequenceIdToSend++
	return id
}

// Reset clears OutLogic back to sequence id 0.
func (l *OutLogic) Reset() {
	l.nextSequenceIdToSend = 0
}
