// Package analyzer keeps a rolling view of which peers were active recently and
// prints it periodically. It is diagnostic only and never feeds back into the
// protocol.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type Analyzer struct {
	nodeCount    int
	window       *Window
	reportPeriod time.Duration
	clock        func() time.Time
	out          io.Writer
	logger       *slog.Logger
}

type option func(Analyzer) Analyzer

// New creates an analyzer for the ids 0..nodeCount-1 that keeps origins for
// window and writes a report line to out every reportPeriod.
func New(nodeCount int, window, reportPeriod time.Duration, out io.Writer, opts ...option) *Analyzer {
	a := Analyzer{
		nodeCount:    nodeCount,
		window:       NewWindow(window),
		reportPeriod: reportPeriod,
		clock:        time.Now,
		out:          out,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		a = opt(a)
	}
	return &a
}

// WithClock replaces time.Now as the source of observation times.
func WithClock(clock func() time.Time) option {
	return func(a Analyzer) Analyzer {
		a.clock = clock
		return a
	}
}

func WithLogger(logger *slog.Logger) option {
	return func(a Analyzer) Analyzer {
		a.logger = logger
		return a
	}
}

// Observe records origin at the current time.
func (a *Analyzer) Observe(origin int) {
	a.window.Observe(origin, a.clock())
}

// Report writes the current counts of every id as one line.
func (a *Analyzer) Report() error {
	counts := a.window.Counts(a.nodeCount, a.clock())
	if _, err := fmt.Fprintln(a.out, FormatCounts(counts)); err != nil {
		return fmt.Errorf("analyzer: write report: %w", err)
	}
	return nil
}

// Run consumes origins until the channel is closed or ctx is cancelled. A due
// report is always written before the next origin is read, so a burst of
// traffic cannot delay reporting and reporting cannot starve the channel.
func (a *Analyzer) Run(ctx context.Context, origins <-chan int) error {
	ticker := time.NewTicker(a.reportPeriod)
	defer ticker.Stop()
	defer a.window.Reset()

	for {
		select {
		case <-ticker.C:
			if err := a.Report(); err != nil {
				return err
			}
		default:
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.Report(); err != nil {
				return err
			}
		case origin, ok := <-origins:
			if !ok {
				a.logger.Info("analyzer stopped", "records", a.window.Len())
				return nil
			}
			a.Observe(origin)
		}
	}
}

// FormatCounts joins counts with single spaces, in index order.
func FormatCounts(counts []int) string {
	fields := make([]string, len(counts))
	for i, c := range counts {
		fields[i] = strconv.Itoa(c)
	}
	return strings.Join(fields, " ")
}
