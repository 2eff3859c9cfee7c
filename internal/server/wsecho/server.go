package wsecho

import (
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins
}

// Server echoes every WebSocket frame back unmodified. Any request path is
// accepted; connections are independent and carry no state past disconnect.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	log        zerolog.Logger
}

// New binds the listener and prepares the HTTP server that upgrades
// every request.
func New(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: listener,
		log:      logger.WithComponent("ws-echo"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveWs)
	s.httpServer = &http.Server{Handler: mux}
	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs until Close is called.
func (s *Server) Serve() error {
	s.log.Info().Str("addr", s.listener.Addr().String()).Msg("WebSocket echo server listening")
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops accepting new connections and closes the listener.
func (s *Server) Close() error {
	return s.httpServer.Close()
}

// serveWs upgrades one request and echoes its frames until the peer
// disconnects. An abrupt close is a per-connection event, never fatal to
// the server.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to upgrade websocket")
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.log.Info().Str("remote_addr", remote).Msg("WebSocket client connected")

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Str("remote_addr", remote).Msg("Connection closed by the client")
			} else {
				s.log.Info().Str("remote_addr", remote).Msg("WebSocket client disconnected")
			}
			return
		}
		s.log.Info().Str("remote_addr", remote).Str("payload", string(message)).Msg("Received message")

		if err := conn.WriteMessage(messageType, message); err != nil {
			s.log.Warn().Err(err).Str("remote_addr", remote).Msg("Write error")
			return
		}
	}
}
