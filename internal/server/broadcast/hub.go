package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

// client pairs a connection with the id it is registered under.
type client struct {
	id   uuid.UUID
	conn *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts messages to the
// clients. All registry mutations are funneled through Run's goroutine;
// the mutex guards the map for callers that only read it.
type Hub struct {
	clients    map[uuid.UUID]*client
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex
	log        zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*client),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        logger.WithComponent("broadcast-hub"),
	}
}

// Run owns the registry until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Info().Str("client_id", c.id.String()).Str("remote_addr", c.conn.RemoteAddr().String()).Msg("Client registered")
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				c.conn.Close()
				h.log.Info().Str("client_id", c.id.String()).Msg("Client unregistered")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for _, c := range h.clients {
				if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
					// The client's read pump notices the dead
					// connection and unregisters it.
					h.log.Warn().Err(err).Str("client_id", c.id.String()).Msg("Error writing to client")
				}
			}
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

// Stop ends the Run loop and closes every remaining connection.
func (h *Hub) Stop() {
	close(h.done)
	h.mu.Lock()
	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

// Broadcast delivers message to every connected client, the sender
// included. Blocks until the Run goroutine has picked it up.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// ClientCount reports the current registry size.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
