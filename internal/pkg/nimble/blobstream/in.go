package blobstream

import (
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/checksum"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// In reassembles a blob streamed by Out. It expects chunks in order
// (chunk index 0, 1, 2, ...) and rejects anything else, since the
// blob-stream sub-protocol is assumed to deliver in order.
type In struct {
	Channel         uint8
	TotalOctetCount int

	buf               []byte
	nextExpectedIndex uint32
	done              bool
}

// NewIn returns an In ready to reassemble totalOctetCount bytes on
// channel.
func NewIn(channel uint8, totalOctetCount int) *In {
	return &In{
		Channel:         channel,
		TotalOctetCount: totalOctetCount,
		buf:             make([]byte, 0, totalOctetCount),
	}
}

// Accept appends chunk to the reassembly buffer.
func (in *In) Accept(chunk wire.BlobChunk) error {
	if in.done {
		return ErrAlreadyDone
	}
	if chunk.ChunkIndex != in.nextExpectedIndex {
		return ErrOutOfOrderChunk
	}
	in.buf = append(in.buf, chunk.Payload...)
	in.nextExpectedIndex++
	if chunk.IsLast {
		in.done = true
	}
	return nil
}

// Done reports whether the final chunk has been accepted.
func (in *In) Done() bool { return in.done }

// ReceivedOctetCount is the number of bytes reassembled so far, for use
// in a DownloadGameStateStatus ack.
func (in *In) ReceivedOctetCount() int { return len(in.buf) }

// Data returns the reassembled blob. It is only meaningful once Done.
func (in *In) Data() []byte { return in.buf }

// Verify checks the reassembled blob's checksum against want.
func (in *In) Verify(want uint32) error {
	if !checksum.Verify(in.buf, want) {
		return ErrChecksumMismatch
	}
	return nil
}
