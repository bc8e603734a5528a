// Package generator manufactures the local events a node floods.
package generator

import (
	"context"
	"crypto/cipher"
	"log/slog"
	"math/big"
	"time"

	"go.dedis.ch/kyber/v4/util/random"
)

// MaxPayload bounds generated payloads to [0, MaxPayload).
const MaxPayload int64 = 1 << 31

// Generator emits a pseudo-random payload once per period.
type Generator struct {
	period time.Duration
	stream cipher.Stream
	logger *slog.Logger
}

type option func(Generator) Generator

func New(period time.Duration, opts ...option) *Generator {
	g := Generator{
		period: period,
		stream: random.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		g = opt(g)
	}
	return &g
}

// WithStream replaces the random source.
func WithStream(stream cipher.Stream) option {
	return func(g Generator) Generator {
		g.stream = stream
		return g
	}
}

func WithLogger(logger *slog.Logger) option {
	return func(g Generator) Generator {
		g.logger = logger
		return g
	}
}

// Next draws a payload.
func (g *Generator) Next() int64 {
	return random.Int(big.NewInt(MaxPayload), g.stream).Int64()
}

// Run sends one payload on out every period until ctx is cancelled. It blocks
// while out is full. Run owns out and closes it on return, which is how the
// consumer learns the generator has stopped.
func (g *Generator) Run(ctx context.Context, out chan<- int64) {
	defer close(out)
	ticker := time.NewTicker(g.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.logger.Debug("generator stopped")
			return
		case <-ticker.C:
		}
		payload := g.Next()
		select {
		case out <- payload:
		case <-ctx.Done():
			g.logger.Debug("generator stopped with a pending event", "payload", payload)
			return
		}
	}
}
