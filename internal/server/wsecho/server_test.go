package wsecho

import (
	"fmt"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New("127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return srv
}

func dial(t *testing.T, srv *Server, path string) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws://%s%s", srv.Addr().String(), path)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestEcho_FramesUnmodifiedInOrder(t *testing.T) {
	srv := startServer(t)
	conn := dial(t, srv, "/")

	frames := []string{"first", "second", "third"}
	for _, f := range frames {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(f)))
	}

	for _, want := range frames {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		messageType, got, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, messageType)
		assert.Equal(t, want, string(got))
	}
}

func TestEcho_AcceptsAnyPath(t *testing.T) {
	srv := startServer(t)
	conn := dial(t, srv, "/some/arbitrary/path")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, got, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))
}

func TestEcho_AbruptDisconnectDoesNotKillServer(t *testing.T) {
	srv := startServer(t)

	first := dial(t, srv, "/")
	// Close the underlying connection without a close handshake.
	first.UnderlyingConn().Close()

	// The server must still serve new connections.
	second := dial(t, srv, "/")
	require.NoError(t, second.WriteMessage(websocket.TextMessage, []byte("still alive")))

	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, got, err := second.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "still alive", string(got))
}

func TestEcho_ConnectionsAreIndependent(t *testing.T) {
	srv := startServer(t)

	a := dial(t, srv, "/")
	b := dial(t, srv, "/")

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("from a")))
	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte("from b")))

	a.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, gotA, err := a.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "from a", string(gotA))

	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, gotB, err := b.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "from b", string(gotB))
}
