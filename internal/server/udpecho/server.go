package udpecho

import (
	"errors"
	"net"

	"github.com/rs/zerolog"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

const datagramBufferSize = 1024

// Server is a connectionless UDP echo server. A single receive loop
// serializes all datagram handling; there is no per-peer state.
type Server struct {
	conn *net.UDPConn
	log  zerolog.Logger
}

// New resolves and binds the datagram socket.
func New(addr string) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		conn: conn,
		log:  logger.WithComponent("udp-echo"),
	}, nil
}

// Addr returns the bound socket address.
func (s *Server) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve receives datagrams until Close is called, replying to each sender
// with the formatted echo. Transient read errors are logged and skipped.
func (s *Server) Serve() error {
	s.log.Info().Str("addr", s.conn.LocalAddr().String()).Msg("UDP echo server listening")
	buf := make([]byte, datagramBufferSize)
	for {
		n, remoteAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("Read error")
			continue
		}
		payload := string(buf[:n])
		s.log.Info().
			Str("remote_addr", remoteAddr.String()).
			Str("payload", payload).
			Msg("Received message")

		if _, err := s.conn.WriteToUDP([]byte("Server received: "+payload), remoteAddr); err != nil {
			s.log.Warn().Err(err).Str("remote_addr", remoteAddr.String()).Msg("Write error")
		}
	}
}

// Close stops the receive loop.
func (s *Server) Close() error {
	return s.conn.Close()
}
