package types

import (
	"fmt"
	"net"
)

// EndpointConf describes the bind address of one echo server.
type EndpointConf struct {
	Host string `ini:"host"`
	Port int    `ini:"port"`
}

// Addr returns the host:port string suitable for net.Listen / net.Dial.
func (e EndpointConf) Addr() string {
	return net.JoinHostPort(e.Host, fmt.Sprintf("%d", e.Port))
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config is the harness-wide behavior configuration.
// Sections map onto configs/servertest.ini; every endpoint has a fixed
// default so the binaries run without any config file present.
type Config struct {
	LogConf       LogConf      `ini:"log"`
	TCPEcho       EndpointConf `ini:"tcp_echo"`
	UDPEcho       EndpointConf `ini:"udp_echo"`
	WSEcho        EndpointConf `ini:"ws_echo"`
	BroadcastEcho EndpointConf `ini:"broadcast_echo"`
}

// Endpoints returns the four configured endpoints keyed by server name.
func (c *Config) Endpoints() map[string]EndpointConf {
	return map[string]EndpointConf{
		"tcp_echo":       c.TCPEcho,
		"udp_echo":       c.UDPEcho,
		"ws_echo":        c.WSEcho,
		"broadcast_echo": c.BroadcastEcho,
	}
}
