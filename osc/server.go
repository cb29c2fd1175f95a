package osc

import (
	"context"
	"errors"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server represents an OSC server. The server listens on Addr for incoming
// OSC messages and dispatches each one to the handlers of its Registry.
//
// Datagrams are handled one at a time: a message is decoded and every
// matching handler has returned before the next datagram is read.
type Server struct {
	Addr        string
	ReadTimeout time.Duration
	// BufferSize bounds the datagram size; longer datagrams are truncated.
	// Defaults to MaxPacketSize.
	BufferSize int
	Decoder    Decoder
	// Logger defaults to the global zerolog logger.
	Logger  *zerolog.Logger
	Metrics *Metrics

	mu       sync.Mutex
	registry *Registry
	conn     net.PacketConn
	closed   bool
}

// NewServer returns a Server for addr with an empty Registry.
func NewServer(addr string) *Server {
	s := &Server{Addr: addr}
	s.registry = s.newRegistry()
	return s
}

// Registry returns the registry owned by s.
func (s *Server) Registry() *Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		s.registry = s.newRegistry()
	}
	return s.registry
}

// newRegistry returns a Registry whose size is tracked by s.Metrics.
func (s *Server) newRegistry() *Registry {
	r := NewRegistry()
	r.OnChange(func(n int) { s.Metrics.handlersChanged(n) })
	return r
}

// Handle registers fn for addr and returns the Path. Close the Path to stop
// receiving messages.
func (s *Server) Handle(addr string, fn func(Payload)) (*Path, error) {
	return NewPath(s.Registry(), addr, fn)
}

func (s *Server) logger() *zerolog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return &log.Logger
}

// ListenAndServe listens on the UDP address s.Addr and then calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ctx, ln)
}

// Serve reads datagrams from c and handles them until ctx is done or the
// server is closed, in which case it returns nil. Any other read error that is
// neither temporary nor a timeout is returned.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.conn = c
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		_ = c.SetReadDeadline(time.Now())
	})
	defer stop()

	s.logger().Info().Str("addr", addrString(c.LocalAddr())).Msg("osc server listening")

	buf := make([]byte, s.bufferSize())
	var tempDelay time.Duration
	for {
		if s.ReadTimeout != 0 {
			if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
				if s.isClosed() {
					return nil
				}
				return err
			}
		}
		if ctx.Err() != nil {
			return nil
		}

		n, a, err := c.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || s.isClosed() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) {
				if ne.Timeout() {
					continue
				}
				//nolint:staticcheck // Temporary is still set by some PacketConns.
				if ne.Temporary() {
					if tempDelay == 0 {
						tempDelay = 5 * time.Millisecond
					} else {
						tempDelay *= 2
					}
					if max := 1 * time.Second; tempDelay > max {
						tempDelay = max
					}
					s.logger().Warn().Err(err).Dur("retry_in", tempDelay).Msg("osc read error")
					time.Sleep(tempDelay)
					continue
				}
			}
			return err
		}
		tempDelay = 0
		s.serve(buf[:n], a)
	}
}

func (s *Server) serve(data []byte, a net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			s.logger().Error().
				Str("from", addrString(a)).
				Interface("panic", err).
				Bytes("stack", debug.Stack()).
				Msg("osc: panic handling message")
		}
	}()
	_, _ = s.handle(data, a)
}

// HandlePacket decodes one datagram and dispatches it to the registry. It
// returns the number of handlers notified. Errors are also logged and
// counted; the caller may simply drop the datagram.
func (s *Server) HandlePacket(data []byte) (int, error) {
	return s.handle(data, nil)
}

func (s *Server) handle(data []byte, a net.Addr) (int, error) {
	s.Metrics.packetReceived()
	logger := s.logger()

	msg, err := s.Decoder.Decode(data)
	if err != nil {
		reason := "other"
		var de *DecodeError
		if errors.As(err, &de) {
			reason = de.Reason()
		}
		s.Metrics.decodeFailed(reason)
		logger.Debug().Err(err).Str("from", addrString(a)).Int("size", len(data)).Msg("dropping undecodable datagram")
		return 0, err
	}
	if msg.IsEmpty() {
		logger.Trace().Str("from", addrString(a)).Msg("datagram without address")
	}

	n, err := s.Registry().Dispatch(msg)
	if err != nil {
		s.Metrics.dispatchFailed()
		logger.Debug().Err(err).Str("from", addrString(a)).Str("address", msg.Address).Msg("dropping message")
		return 0, err
	}
	s.Metrics.dispatched(n)
	logger.Trace().
		Str("from", addrString(a)).
		Str("address", msg.Address).
		Str("tags", msg.TypeTags()).
		Int("notified", n).
		Msg("dispatched message")
	return n, nil
}

// Close stops Serve and closes the registry, giving every registered handler
// the chance to unregister itself first.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	c := s.conn
	reg := s.registry
	s.mu.Unlock()

	var err error
	if c != nil {
		err = c.Close()
	}
	if reg != nil {
		reg.Close()
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) bufferSize() int {
	if s.BufferSize > 0 {
		return s.BufferSize
	}
	return MaxPacketSize
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
