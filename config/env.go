package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variables read by FromEnv.
const (
	EnvNodes           = "FLOOD_NODES"
	EnvPort            = "FLOOD_PORT"
	EnvBroadcast       = "FLOOD_BROADCAST"
	EnvWindow          = "FLOOD_WINDOW"
	EnvGeneratorPeriod = "FLOOD_GENERATOR_PERIOD"
	EnvReportPeriod    = "FLOOD_REPORT_PERIOD"
	EnvPollTimeout     = "FLOOD_POLL_TIMEOUT"
)

// FromEnv builds a Config from the defaults, the variables found through lookup
// (usually os.LookupEnv) and finally opts.
func FromEnv(lookup func(string) (string, bool), opts ...Option) (Config, error) {
	var envOpts []Option

	ints := []struct {
		key string
		opt func(int) Option
	}{
		{EnvNodes, WithNodeCount},
		{EnvPort, WithPort},
	}
	for _, e := range ints {
		v, ok := lookup(e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", e.key, err)
		}
		envOpts = append(envOpts, e.opt(n))
	}

	if v, ok := lookup(EnvBroadcast); ok {
		envOpts = append(envOpts, WithBroadcastAddress(v))
	}

	durations := []struct {
		key string
		opt func(time.Duration) Option
	}{
		{EnvWindow, WithWindow},
		{EnvGeneratorPeriod, WithGeneratorPeriod},
		{EnvReportPeriod, WithReportPeriod},
		{EnvPollTimeout, WithPollTimeout},
	}
	for _, e := range durations {
		v, ok := lookup(e.key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", e.key, err)
		}
		envOpts = append(envOpts, e.opt(d))
	}

	return New(append(envOpts, opts...)...)
}
