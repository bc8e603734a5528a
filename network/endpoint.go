package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/luca-patrignani/flooding/message"
)

var ErrShortWrite = errors.New("network: partial datagram written")

// Endpoint is a UDP broadcast endpoint. It is bound to the shared port on every
// interface and sends to the broadcast address on the same port.
type Endpoint struct {
	conn        net.PacketConn
	destination *net.UDPAddr
	inbound     chan message.Message
	done        chan struct{}
	closeOnce   sync.Once
	logger      *slog.Logger

	// written by the reader goroutine before it closes inbound
	err error
}

// Listen opens the endpoint and starts decoding inbound datagrams.
func Listen(ctx context.Context, port int, broadcastAddress string, opts ...option) (*Endpoint, error) {
	o := defaultOptions()
	for _, opt := range opts {
		o = opt(o)
	}

	destination, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(broadcastAddress, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("network: resolve broadcast address: %w", err)
	}

	lc := net.ListenConfig{Control: socketOptions(o.reusePort)}
	conn, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort("", strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("network: listen on port %d: %w", port, err)
	}

	e := &Endpoint{
		conn:        conn,
		destination: destination,
		inbound:     make(chan message.Message, o.inboundBuffer),
		done:        make(chan struct{}),
		logger:      o.logger,
	}
	go e.readLoop()
	e.logger.Debug("endpoint listening", "local", conn.LocalAddr().String(), "broadcast", destination.String())
	return e, nil
}

// socketOptions sets SO_REUSEADDR, SO_BROADCAST and optionally SO_REUSEPORT
// before the socket is bound.
func socketOptions(reusePort bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var serr error
		err := c.Control(func(fd uintptr) {
			if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); serr != nil {
				return
			}
			if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); serr != nil {
				return
			}
			if reusePort {
				serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			}
		})
		if err != nil {
			return err
		}
		return serr
	}
}

func (e *Endpoint) readLoop() {
	defer close(e.inbound)
	// one spare byte so that oversized datagrams are detected instead of truncated
	buf := make([]byte, message.Size+1)
	for {
		n, _, err := e.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			e.err = fmt.Errorf("network: receive: %w", err)
			return
		}
		m, err := message.Decode(buf[:n])
		if err != nil {
			e.err = err
			return
		}
		select {
		case e.inbound <- m:
		case <-e.done:
			return
		}
	}
}

// Broadcast sends m to every node listening on the broadcast address.
func (e *Endpoint) Broadcast(m message.Message) error {
	n, err := e.conn.WriteTo(message.Encode(m), e.destination)
	if err != nil {
		return fmt.Errorf("network: send: %w", err)
	}
	if n != message.Size {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, message.Size)
	}
	return nil
}

// Inbound returns the decoded messages. The channel is closed when the
// endpoint stops receiving.
func (e *Endpoint) Inbound() <-chan message.Message {
	return e.inbound
}

// Err returns the failure that stopped the endpoint. It must only be called
// after Inbound has been closed.
func (e *Endpoint) Err() error {
	return e.err
}

func (e *Endpoint) LocalAddr() net.Addr {
	return e.conn.LocalAddr()
}

func (e *Endpoint) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.done)
		err = e.conn.Close()
	})
	return err
}
