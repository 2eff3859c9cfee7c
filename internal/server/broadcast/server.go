package broadcast

import (
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts WebSocket clients and fans every inbound message out to
// all connected clients as "Server received: " + message. This is the only
// harness server with multi-client state.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	hub        *Hub
	log        zerolog.Logger
}

// New binds the listener and starts the hub goroutine.
func New(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: listener,
		hub:      NewHub(),
		log:      logger.WithComponent("broadcast-echo"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveWs)
	s.httpServer = &http.Server{Handler: mux}
	go s.hub.Run()
	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Hub exposes the client registry, used by tests.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Serve runs until Close is called.
func (s *Server) Serve() error {
	s.log.Info().Str("addr", s.listener.Addr().String()).Msg("Broadcast server listening")
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the hub and the HTTP server.
func (s *Server) Close() error {
	err := s.httpServer.Close()
	s.hub.Stop()
	return err
}

// serveWs upgrades one request, registers the client and pumps its inbound
// messages into the hub until it disconnects.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to upgrade websocket")
		return
	}

	c := &client{id: uuid.New(), conn: conn}
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}

	defer func() {
		select {
		case s.hub.unregister <- c:
		case <-s.hub.done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Str("client_id", c.id.String()).Msg("Unexpected websocket close error")
			}
			return
		}
		s.log.Info().Str("client_id", c.id.String()).Str("payload", string(message)).Msg("Received message")
		s.hub.Broadcast([]byte("Server received: " + string(message)))
	}
}
