package tcpecho

import (
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

const readBufferSize = 1024

// Server is a one-shot TCP echo server: each accepted connection gets a
// single read, a single formatted reply, and is then closed.
type Server struct {
	listener net.Listener
	log      zerolog.Logger
}

// New binds the listener. Port 0 is allowed so tests can grab an
// ephemeral port via Addr().
func New(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		log:      logger.WithComponent("tcp-echo"),
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until Close is called. Each connection is
// handled on its own goroutine; there is no shared state between them.
func (s *Server) Serve() error {
	s.log.Info().Str("addr", s.listener.Addr().String()).Msg("TCP echo server listening")
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("Accept error")
			continue
		}
		go s.handleConn(conn)
	}
}

// Close stops the accept loop. In-flight handlers finish on their own.
func (s *Server) Close() error {
	return s.listener.Close()
}

// handleConn trusts a single Read to return the whole payload. Multi-packet
// messages are out of scope for this fixture; there is no framing.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	s.log.Info().
		Str("conn_id", connID).
		Str("remote_addr", conn.RemoteAddr().String()).
		Msg("Connection accepted")

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		s.log.Warn().Err(err).Str("conn_id", connID).Msg("Read error")
		return
	}
	payload := string(buf[:n])
	s.log.Info().Str("conn_id", connID).Str("payload", payload).Msg("Received message")

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte("Server received: " + payload)); err != nil {
		s.log.Warn().Err(err).Str("conn_id", connID).Msg("Write error")
	}
}
