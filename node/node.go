// Package node assembles a flooding node out of its three roles and runs them
// as one unit: the generator feeds the broadcaster, the broadcaster feeds the
// analyzer, and the first role to stop brings the others down.
package node

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/luca-patrignani/flooding/analyzer"
	"github.com/luca-patrignani/flooding/broadcaster"
	"github.com/luca-patrignani/flooding/config"
	"github.com/luca-patrignani/flooding/generator"
)

type Node struct {
	self        int
	cfg         config.Config
	generator   *generator.Generator
	broadcaster *broadcaster.Broadcaster
	analyzer    *analyzer.Analyzer
}

type nodeOptions struct {
	logger *slog.Logger
	out    io.Writer
}

type option func(nodeOptions) nodeOptions

func WithLogger(logger *slog.Logger) option {
	return func(o nodeOptions) nodeOptions {
		o.logger = logger
		return o
	}
}

// WithOutput sets where the analyzer writes its reports. Defaults to os.Stdout.
func WithOutput(out io.Writer) option {
	return func(o nodeOptions) nodeOptions {
		o.out = out
		return o
	}
}

// New wires the roles of node self on top of transport. cfg must be valid.
func New(self int, cfg config.Config, transport broadcaster.Transport, opts ...option) (*Node, error) {
	o := nodeOptions{logger: slog.Default(), out: os.Stdout}
	for _, opt := range opts {
		o = opt(o)
	}
	logger := o.logger.With("node", self)

	b, err := broadcaster.New(self, cfg.NodeCount, transport,
		broadcaster.WithPollTimeout(cfg.PollTimeout),
		broadcaster.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}
	return &Node{
		self:        self,
		cfg:         cfg,
		generator:   generator.New(cfg.GeneratorPeriod, generator.WithLogger(logger)),
		broadcaster: b,
		analyzer: analyzer.New(cfg.NodeCount, cfg.Window, cfg.ReportPeriod, o.out,
			analyzer.WithLogger(logger),
		),
	}, nil
}

// Run starts the three roles and waits for all of them. It returns nil when
// ctx is cancelled and the error of any role that failed otherwise.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan int64, n.cfg.ChannelBuffer)
	origins := make(chan int, n.cfg.ChannelBuffer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		n.generator.Run(ctx, events)
	}()

	fatal := make(chan error, 2)
	go func() {
		err := n.broadcaster.Run(ctx, events, origins)
		cancel()
		fatal <- err
	}()
	go func() {
		err := n.analyzer.Run(ctx, origins)
		cancel()
		fatal <- err
	}()

	errs := []error{<-fatal, <-fatal}
	wg.Wait()
	return errors.Join(errs...)
}

// Stats returns the broadcaster counters. Call it after Run returns.
func (n *Node) Stats() broadcaster.Stats {
	return n.broadcaster.Stats()
}
