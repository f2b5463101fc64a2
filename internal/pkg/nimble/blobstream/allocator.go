package blobstream

import "github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"

// ChannelAllocator hands out blob-stream channel ids, one per in-flight
// snapshot transfer. It starts at 127, decrements, wraps to 127, and
// rejects allocation once every channel is in use rather than reusing
// one still in flight.
type ChannelAllocator struct {
	next uint8
	used [limits.InitialBlobStreamOutChannel + 1]bool
}

// NewChannelAllocator returns an allocator ready to hand out channel 127
// first.
func NewChannelAllocator() *ChannelAllocator {
	return &ChannelAllocator{next: limits.InitialBlobStreamOutChannel}
}

// Allocate returns the next free channel id, or ErrChannelsExhausted if
// every channel is already in use.
func (a *ChannelAllocator) Allocate() (uint8, error) {
	for attempts := 0; attempts <= limits.InitialBlobStreamOutChannel; attempts++ {
		candidate := a.next
		a.advance()
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate, nil
		}
	}
	return 0, ErrChannelsExhausted
}

// Release frees a channel id for reuse.
func (a *ChannelAllocator) Release(channel uint8) {
	a.used[channel] = false
}

func (a *ChannelAllocator) advance() {
	if a.next == 0 {
		a.next = limits.InitialBlobStreamOutChannel
		return
	}
	a.next--
}
