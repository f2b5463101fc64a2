package wire

import "github.com/pkg/errors"

// ErrShortDatagram is returned when a datagram is too small to even hold
// the 3-octet header.
var ErrShortDatagram = errors.New("datagram shorter than header")

// SplitHeader separates the 3-octet header from a received datagram,
// returning the sequence id, command id, and the remaining payload.
func SplitHeader(datagram []byte) (sequenceId uint8, cmd Command, payload []byte, err error) {
	if len(datagram) < HeaderSize {
		return 0, 0, nil, ErrShortDatagram
	}
	return datagram[0], Command(datagram[2]), datagram[HeaderSize:], nil
}

// WriteHeader prepends the 3-octet header to payload.
func WriteHeader(sequenceId uint8, cmd Command, payload []byte) []byte {
	out := make([]byte, HeaderSize+len(payload))
	out[0] = sequenceId
	out[1] = ReservedOctet
	out[2] = byte(cmd)
	copy(out[HeaderSize:], payload)
	return out
}
