package network

import (
	"errors"
	"slices"
	"sync"

	"github.com/luca-patrignani/flooding/message"
)

var ErrEndpointClosed = errors.New("network: endpoint closed")

// Medium is an in-memory broadcast domain shared by its attached endpoints.
type Medium struct {
	mu      sync.Mutex
	members []*MemoryEndpoint
	buffer  int
}

// NewMedium creates a medium whose endpoints queue up to buffer messages each.
func NewMedium(buffer int) *Medium {
	if buffer < 1 {
		buffer = 1
	}
	return &Medium{buffer: buffer}
}

// Attach adds a new endpoint to the medium.
func (md *Medium) Attach() *MemoryEndpoint {
	e := &MemoryEndpoint{
		medium:  md,
		inbound: make(chan message.Message, md.buffer),
	}
	md.mu.Lock()
	md.members = append(md.members, e)
	md.mu.Unlock()
	return e
}

// deliver hands m to every member without blocking; full queues lose it.
func (md *Medium) deliver(m message.Message) {
	md.mu.Lock()
	defer md.mu.Unlock()
	for _, member := range md.members {
		select {
		case member.inbound <- m:
		default:
		}
	}
}

func (md *Medium) detach(e *MemoryEndpoint) bool {
	md.mu.Lock()
	defer md.mu.Unlock()
	i := slices.Index(md.members, e)
	if i < 0 {
		return false
	}
	md.members = slices.Delete(md.members, i, i+1)
	close(e.inbound)
	return true
}

// MemoryEndpoint is an endpoint of a Medium.
type MemoryEndpoint struct {
	medium  *Medium
	inbound chan message.Message
}

func (e *MemoryEndpoint) Broadcast(m message.Message) error {
	e.medium.mu.Lock()
	attached := slices.Contains(e.medium.members, e)
	e.medium.mu.Unlock()
	if !attached {
		return ErrEndpointClosed
	}
	e.medium.deliver(m)
	return nil
}

func (e *MemoryEndpoint) Inbound() <-chan message.Message {
	return e.inbound
}

// Err is always nil: a memory endpoint only stops when it is closed.
func (e *MemoryEndpoint) Err() error {
	return nil
}

func (e *MemoryEndpoint) Close() error {
	if !e.medium.detach(e) {
		return ErrEndpointClosed
	}
	return nil
}
