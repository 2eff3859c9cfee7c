package udpecho

import (
	"net"
	"testing"
	"time"

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

func TestEcho_SingleDatagram(t *testing.T) {
	srv := startServer(t)

	conn, err := net.Dial("udp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("hello"))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "Server received: hello", string(buf[:n]))
}

func TestEcho_UnboundedSequenceWithoutRestart(t *testing.T) {
	srv := startServer(t)

	conn, err := net.Dial("udp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 1024)
	for i := 0; i < 10; i++ {
		_, err = conn.Write([]byte("ping"))
		require.NoError(t, err)

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := conn.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "Server received: ping", string(buf[:n]))
	}
}

func TestEcho_RepliesGoToSender(t *testing.T) {
	srv := startServer(t)

	first, err := net.Dial("udp", srv.Addr().String())
	require.NoError(t, err)
	defer first.Close()
	second, err := net.Dial("udp", srv.Addr().String())
	require.NoError(t, err)
	defer second.Close()

	_, err = first.Write([]byte("from first"))
	require.NoError(t, err)
	_, err = second.Write([]byte("from second"))
	require.NoError(t, err)

	buf := make([]byte, 1024)

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := first.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "Server received: from first", string(buf[:n]))

	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err = second.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "Server received: from second", string(buf[:n]))
}

func TestServe_ReturnsAfterClose(t *testing.T) {
	srv, err := New("127.0.0.1:0")
	require.NoError(t, err)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	require.NoError(t, srv.Close())
	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
}
