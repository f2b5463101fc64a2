package blobstream

import "github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"

// Out chunks a single blob (a game state snapshot) for push over a
// blob-stream channel. It is an outbound cursor, not a retransmit
// buffer: the underlying transport is assumed to deliver the blob-stream
// sub-protocol reliably and in order, so Out never resends a chunk once
// handed to the caller.
type Out struct {
	Channel   uint8
	Data      []byte
	ChunkSize int

	nextOffset int
	nextIndex  uint32
}

// NewOut returns an Out ready to stream data over channel in chunkSize
// pieces.
func NewOut(channel uint8, data []byte, chunkSize int) *Out {
	return &Out{Channel: channel, Data: data, ChunkSize: chunkSize}
}

// TotalOctetCount is the length of the blob being streamed.
func (o *Out) TotalOctetCount() int { return len(o.Data) }

// Done reports whether every chunk has already been produced.
func (o *Out) Done() bool { return o.nextOffset >= len(o.Data) }

// Next produces the next chunk, or ok=false if Done.
func (o *Out) Next() (chunk wire.BlobChunk, ok bool) {
	if o.Done() {
		return wire.BlobChunk{}, false
	}
	end := o.nextOffset + o.ChunkSize
	if end > len(o.Data) {
		end = len(o.Data)
	}
	chunk = wire.BlobChunk{
		Channel:    o.Channel,
		ChunkIndex: o.nextIndex,
		IsLast:     end >= len(o.Data),
		Payload:    o.Data[o.nextOffset:end],
	}
	o.nextOffset = end
	o.nextIndex++
	return chunk, true
}
