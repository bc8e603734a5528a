// Package config holds the constants a flooding node depends on: the size of
// the peer id space, the broadcast endpoint and the timings of the three roles.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingNodeID = errors.New("missing node id")
	ErrNodeIDRange   = errors.New("node id out of range")
)

type Config struct {
	// Peer id space is 0..NodeCount-1
	NodeCount int `json:"node_count"`

	// Network configuration
	Port             int    `json:"port"`
	BroadcastAddress string `json:"broadcast_address"`

	// Role timings
	Window          time.Duration `json:"window"`
	GeneratorPeriod time.Duration `json:"generator_period"`
	ReportPeriod    time.Duration `json:"report_period"`
	PollTimeout     time.Duration `json:"poll_timeout"`

	// Capacity of the channels between roles
	ChannelBuffer int `json:"channel_buffer"`
}

// Default returns the configuration the node runs with when nothing is overridden.
func Default() Config {
	return Config{
		NodeCount:        10,
		Port:             2507,
		BroadcastAddress: "255.255.255.255",
		Window:           5 * time.Second,
		GeneratorPeriod:  time.Second,
		ReportPeriod:     time.Second,
		PollTimeout:      100 * time.Microsecond,
		ChannelBuffer:    1,
	}
}

type Option func(Config) Config

// New applies opts on top of Default and validates the result.
func New(opts ...Option) (Config, error) {
	c := Default()
	for _, opt := range opts {
		c = opt(c)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func WithNodeCount(n int) Option {
	return func(c Config) Config {
		c.NodeCount = n
		return c
	}
}

func WithPort(port int) Option {
	return func(c Config) Config {
		c.Port = port
		return c
	}
}

func WithBroadcastAddress(addr string) Option {
	return func(c Config) Config {
		c.BroadcastAddress = addr
		return c
	}
}

func WithWindow(window time.Duration) Option {
	return func(c Config) Config {
		c.Window = window
		return c
	}
}

func WithGeneratorPeriod(period time.Duration) Option {
	return func(c Config) Config {
		c.GeneratorPeriod = period
		return c
	}
}

func WithReportPeriod(period time.Duration) Option {
	return func(c Config) Config {
		c.ReportPeriod = period
		return c
	}
}

func WithPollTimeout(timeout time.Duration) Option {
	return func(c Config) Config {
		c.PollTimeout = timeout
		return c
	}
}

func WithChannelBuffer(size int) Option {
	return func(c Config) Config {
		c.ChannelBuffer = size
		return c
	}
}

// Validate reports the first setting that cannot be used to start a node.
func (c Config) Validate() error {
	if c.NodeCount <= 0 {
		return fmt.Errorf("node count must be positive, got %d", c.NodeCount)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is not a valid UDP port", c.Port)
	}
	if ip := net.ParseIP(c.BroadcastAddress); ip == nil || ip.To4() == nil {
		return fmt.Errorf("broadcast address %q is not an IPv4 address", c.BroadcastAddress)
	}
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"window", c.Window},
		{"generator period", c.GeneratorPeriod},
		{"report period", c.ReportPeriod},
		{"poll timeout", c.PollTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.value)
		}
	}
	if c.ChannelBuffer < 1 {
		return fmt.Errorf("channel buffer must hold at least one element, got %d", c.ChannelBuffer)
	}
	return nil
}

// ParseNodeID parses the node id given on the command line and checks that it
// falls inside the configured id space.
func ParseNodeID(arg string, nodeCount int) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, ErrMissingNodeID
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("node id %q is not an integer: %w", arg, err)
	}
	if id < 0 || id >= nodeCount {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrNodeIDRange, id, nodeCount)
	}
	return id, nil
}
