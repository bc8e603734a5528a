package network

import "log/slog"

type endpointOptions struct {
	logger        *slog.Logger
	inboundBuffer int
	reusePort     bool
}

type option func(endpointOptions) endpointOptions

func defaultOptions() endpointOptions {
	return endpointOptions{
		logger:        slog.Default(),
		inboundBuffer: 16,
		reusePort:     true,
	}
}

func WithLogger(logger *slog.Logger) option {
	return func(o endpointOptions) endpointOptions {
		o.logger = logger
		return o
	}
}

// WithInboundBuffer sets how many decoded messages may wait for the reader.
func WithInboundBuffer(size int) option {
	return func(o endpointOptions) endpointOptions {
		if size > 0 {
			o.inboundBuffer = size
		}
		return o
	}
}

// WithReusePort controls SO_REUSEPORT, which lets several nodes bind the same
// port on one host.
func WithReusePort(enabled bool) option {
	return func(o endpointOptions) endpointOptions {
		o.reusePort = enabled
		return o
	}
}
