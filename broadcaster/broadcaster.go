package broadcaster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luca-patrignani/flooding/message"
)

var ErrTransportClosed = errors.New("broadcaster: network endpoint closed")

// Transport abstracts the broadcast medium.
type Transport interface {
	// Broadcast sends m to every node, the sender included.
	Broadcast(m message.Message) error

	// Inbound returns the received messages. The channel is closed when the
	// transport stops.
	Inbound() <-chan message.Message

	// Err reports why Inbound was closed, or nil if it was closed locally.
	Err() error
}

// Stats counts what the protocol loop did with each event.
type Stats struct {
	Generated  uint64
	Received   uint64
	Relayed    uint64
	Echoes     uint64
	Duplicates uint64
	OutOfRange uint64
	// waits that ended on the poll timeout with nothing ready
	Idle uint64
}

// Broadcaster is the protocol core of a node. All its state is owned by the
// goroutine calling Run.
type Broadcaster struct {
	self        int
	table       SuppressionTable
	transport   Transport
	pollTimeout time.Duration
	logger      *slog.Logger
	stats       Stats
}

type option func(Broadcaster) Broadcaster

// New creates the broadcaster of node self in a group of nodeCount nodes.
func New(self, nodeCount int, transport Transport, opts ...option) (*Broadcaster, error) {
	if self < 0 || self >= nodeCount {
		return nil, fmt.Errorf("broadcaster: node id %d not in [0, %d)", self, nodeCount)
	}
	b := Broadcaster{
		self:        self,
		table:       NewSuppressionTable(nodeCount),
		transport:   transport,
		pollTimeout: 100 * time.Microsecond,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		b = opt(b)
	}
	b.logger = b.logger.With("node", self)
	return &b, nil
}

// WithPollTimeout sets the ceiling of a single wait on the network and
// generator channels.
func WithPollTimeout(timeout time.Duration) option {
	return func(b Broadcaster) Broadcaster {
		if timeout > 0 {
			b.pollTimeout = timeout
		}
		return b
	}
}

func WithLogger(logger *slog.Logger) option {
	return func(b Broadcaster) Broadcaster {
		b.logger = logger
		return b
	}
}

// HandleLocal builds the message for a locally generated event.
func (b *Broadcaster) HandleLocal(payload int64) message.Message {
	b.stats.Generated++
	return message.Message{Origin: int64(b.self), Payload: payload, Sequence: 0}
}

// HandleInbound applies the suppression rule to m. When m is accepted it
// returns the relay to broadcast and true.
func (b *Broadcaster) HandleInbound(m message.Message) (message.Message, bool) {
	b.stats.Received++
	if m.Origin == int64(b.self) {
		b.stats.Echoes++
		return message.Message{}, false
	}
	if !b.table.InRange(m.Origin) {
		b.stats.OutOfRange++
		b.logger.Warn("discarding message from unknown node", "message", m.String())
		return message.Message{}, false
	}
	if b.table.Suppresses(m.Origin, m.Sequence) {
		b.stats.Duplicates++
		b.logger.Debug("suppressed", "message", m.String())
		return message.Message{}, false
	}
	b.table.store(m.Origin, m.Sequence)
	relay := message.Message{
		Origin:   int64(b.self),
		Payload:  m.Payload,
		Sequence: b.table.increment(m.Origin),
	}
	b.stats.Relayed++
	b.logger.Debug("accepted", "message", m.String(), "relay", relay.String())
	return relay, true
}

// Table returns a copy of the suppression table.
func (b *Broadcaster) Table() SuppressionTable {
	return b.table.clone()
}

func (b *Broadcaster) Stats() Stats {
	return b.stats
}

// Run executes the protocol loop. Local events are read from events and the
// origin of every accepted message is written to observed, which Run closes on
// return. Run returns nil when ctx is cancelled or events is closed, and an
// error when the transport fails.
func (b *Broadcaster) Run(ctx context.Context, events <-chan int64, observed chan<- int) error {
	defer close(observed)
	defer func() {
		b.logger.Info("broadcaster stopped",
			"generated", b.stats.Generated,
			"received", b.stats.Received,
			"relayed", b.stats.Relayed,
			"echoes", b.stats.Echoes,
			"duplicates", b.stats.Duplicates,
			"out_of_range", b.stats.OutOfRange,
			"idle", b.stats.Idle,
		)
	}()

	inbound := b.transport.Inbound()
	timer := time.NewTimer(b.pollTimeout)
	defer timer.Stop()

	for {
		timer.Reset(b.pollTimeout)
		select {
		case <-ctx.Done():
			return nil

		case payload, ok := <-events:
			if !ok {
				b.logger.Info("generator channel closed")
				return nil
			}
			m := b.HandleLocal(payload)
			if !notify(ctx, observed, b.self) {
				return nil
			}
			if err := b.transport.Broadcast(m); err != nil {
				return fmt.Errorf("broadcaster: send local event: %w", err)
			}

		case m, ok := <-inbound:
			if !ok {
				if err := b.transport.Err(); err != nil {
					return fmt.Errorf("broadcaster: receive: %w", err)
				}
				return ErrTransportClosed
			}
			relay, accepted := b.HandleInbound(m)
			if !accepted {
				continue
			}
			if !notify(ctx, observed, int(m.Origin)) {
				return nil
			}
			if err := b.transport.Broadcast(relay); err != nil {
				return fmt.Errorf("broadcaster: relay: %w", err)
			}

		case <-timer.C:
			b.stats.Idle++
		}
	}
}

// notify forwards origin to the analyzer, blocking until it is taken or ctx is
// cancelled.
func notify(ctx context.Context, observed chan<- int, origin int) bool {
	select {
	case observed <- origin:
		return true
	case <-ctx.Done():
		return false
	}
}
