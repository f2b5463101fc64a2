package blobstream

import "github.com/pkg/errors"

var (
	// ErrChannelsExhausted is returned by the ChannelAllocator when every
	// channel from 127 down to 0 is already in use.
	ErrChannelsExhausted = errors.New("blobstream: no free channel")
	// ErrOutOfOrderChunk is returned by In.Accept when a chunk does not
	// extend the buffer contiguously. The blob-stream sub-protocol is
	// assumed to deliver chunks in order; this guards the invariant
	// rather than recovering from its violation.
	ErrOutOfOrderChunk = errors.New("blobstream: out-of-order chunk")
	// ErrAlreadyDone is returned by In.Accept once the final chunk has
	// already been received.
	ErrAlreadyDone = errors.New("blobstream: stream already complete")
	// ErrChecksumMismatch is returned by In.Verify when the reassembled
	// blob's checksum does not match the one it was sent with.
	ErrChecksumMismatch = errors.New("blobstream: checksum mismatch")
)
