package node

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/luca-patrignani/flooding/config"
	"github.com/luca-patrignani/flooding/message"
	"github.com/luca-patrignani/flooding/network"
)

func testConfig(t *testing.T, n int) config.Config {
	t.Helper()
	cfg, err := config.New(
		config.WithNodeCount(n),
		config.WithGeneratorPeriod(10*time.Millisecond),
		config.WithReportPeriod(20*time.Millisecond),
		config.WithWindow(time.Second),
		config.WithPollTimeout(time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func lastReport(t *testing.T, out string, n int) []int {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("no report was written")
	}
	for _, line := range lines {
		if len(strings.Fields(line)) != n {
			t.Fatalf("expected %d counts per report, actual %q", n, line)
		}
	}
	var counts []int
	for _, field := range strings.Fields(lines[len(lines)-1]) {
		c, err := strconv.Atoi(field)
		if err != nil {
			t.Fatal(err)
		}
		counts = append(counts, c)
	}
	return counts
}

func TestNodesFloodEachOther(t *testing.T) {
	n := 3
	cfg := testConfig(t, n)
	medium := network.NewMedium(256)
	ctx, cancel := context.WithCancel(context.Background())

	outputs := make([]*bytes.Buffer, n)
	fatal := make(chan error, n)
	for i := 0; i < n; i++ {
		outputs[i] = &bytes.Buffer{}
		node, err := New(i, cfg, medium.Attach(), WithOutput(outputs[i]))
		if err != nil {
			t.Fatal(err)
		}
		go func() {
			fatal <- node.Run(ctx)
		}()
	}

	time.Sleep(300 * time.Millisecond)
	cancel()
	for i := 0; i < n; i++ {
		select {
		case err := <-fatal:
			if err != nil {
				t.Fatal(err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("node did not stop after cancellation")
		}
	}

	for i := 0; i < n; i++ {
		counts := lastReport(t, outputs[i].String(), n)
		if counts[i] == 0 {
			t.Fatalf("node %d did not count its own events: %v", i, counts)
		}
		other := (i + 1) % n
		if counts[other] == 0 {
			t.Fatalf("node %d never heard from node %d: %v", i, other, counts)
		}
	}
}

// closedTransport has no inbound traffic and reports a decode failure.
type closedTransport struct {
	inbound chan message.Message
}

func (c closedTransport) Broadcast(message.Message) error  { return nil }
func (c closedTransport) Inbound() <-chan message.Message { return c.inbound }
func (c closedTransport) Err() error                       { return message.ErrShortMessage }

func TestRunReturnsTransportError(t *testing.T) {
	transport := closedTransport{inbound: make(chan message.Message)}
	close(transport.inbound)
	node, err := New(0, testConfig(t, 2), transport, WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := node.Run(ctx); !errors.Is(err, message.ErrShortMessage) {
		t.Fatalf("expected the transport error, actual %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("the node waited for the deadline instead of stopping on the failure")
	}
}

func TestNewRejectsUnknownID(t *testing.T) {
	if _, err := New(5, testConfig(t, 2), network.NewMedium(1).Attach()); err == nil {
		t.Fatal("expected an error for an id outside the peer group")
	}
}
