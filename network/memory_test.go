package network

import (
	"errors"
	"fmt"
	"testing"

	"github.com/luca-patrignani/flooding/message"
)

func TestMediumDeliversToEveryEndpoint(t *testing.T) {
	n := 4
	medium := NewMedium(8)
	endpoints := make([]*MemoryEndpoint, n)
	for i := 0; i < n; i++ {
		endpoints[i] = medium.Attach()
	}
	sent := message.Message{Origin: 1, Payload: 99, Sequence: 0}
	if err := endpoints[1].Broadcast(sent); err != nil {
		t.Fatal(err)
	}
	for i, e := range endpoints {
		select {
		case recv := <-e.Inbound():
			if recv != sent {
				t.Fatalf("endpoint %d: expected %v, actual %v", i, sent, recv)
			}
		default:
			t.Fatalf("endpoint %d did not receive the broadcast", i)
		}
	}
}

func TestMediumDropsWhenQueueIsFull(t *testing.T) {
	medium := NewMedium(1)
	sender := medium.Attach()
	receiver := medium.Attach()
	for i := 0; i < 3; i++ {
		if err := sender.Broadcast(message.Message{Payload: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	recv := <-receiver.Inbound()
	if recv.Payload != 0 {
		t.Fatalf("expected the first message to survive, actual %v", recv)
	}
	select {
	case m := <-receiver.Inbound():
		t.Fatalf("expected the other messages to be lost, received %v", m)
	default:
	}
}

func TestMemoryEndpointClose(t *testing.T) {
	medium := NewMedium(4)
	a := medium.Attach()
	b := medium.Attach()
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-b.Inbound(); ok {
		t.Fatal("expected inbound to be closed")
	}
	if err := b.Broadcast(message.Message{}); !errors.Is(err, ErrEndpointClosed) {
		t.Fatalf("expected ErrEndpointClosed, actual %v", err)
	}
	if err := b.Close(); !errors.Is(err, ErrEndpointClosed) {
		t.Fatalf("expected ErrEndpointClosed on second close, actual %v", err)
	}
	if err := a.Broadcast(message.Message{Payload: 1}); err != nil {
		t.Fatal(fmt.Errorf("remaining endpoint should still broadcast: %w", err))
	}
	if got := (<-a.Inbound()).Payload; got != 1 {
		t.Fatalf("expected payload 1, actual %d", got)
	}
}
