package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_FixedEndpoints(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:5007", cfg.TCPEcho.Addr())
	assert.Equal(t, "127.0.0.1:5006", cfg.UDPEcho.Addr())
	assert.Equal(t, "localhost:8765", cfg.WSEcho.Addr())
	assert.Equal(t, "localhost:5001", cfg.BroadcastEcho.Addr())
	assert.Equal(t, "info", cfg.LogConf.Level)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg := Default()
	err := Load(cfg, filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5007", cfg.TCPEcho.Addr())
}

func TestLoad_IniOverridesDefaults(t *testing.T) {
	iniPath := filepath.Join(t.TempDir(), "servertest.ini")
	content := "[log]\nlevel = debug\n\n[tcp_echo]\nhost = 127.0.0.1\nport = 15007\n"
	require.NoError(t, os.WriteFile(iniPath, []byte(content), 0644))

	cfg := Default()
	require.NoError(t, Load(cfg, iniPath))

	assert.Equal(t, "debug", cfg.LogConf.Level)
	assert.Equal(t, "127.0.0.1:15007", cfg.TCPEcho.Addr())
	// Untouched sections keep their defaults.
	assert.Equal(t, "127.0.0.1:5006", cfg.UDPEcho.Addr())
}

func TestLoad_EnvOverridesIni(t *testing.T) {
	iniPath := filepath.Join(t.TempDir(), "servertest.ini")
	content := "[udp_echo]\nhost = 127.0.0.1\nport = 15006\n"
	require.NoError(t, os.WriteFile(iniPath, []byte(content), 0644))

	t.Setenv("SERVERTEST_UDP_PORT", "25006")
	t.Setenv("SERVERTEST_LOG_LEVEL", "warn")

	cfg := Default()
	require.NoError(t, Load(cfg, iniPath))

	assert.Equal(t, "127.0.0.1:25006", cfg.UDPEcho.Addr())
	assert.Equal(t, "warn", cfg.LogConf.Level)
}

func TestValidate_RejectsDuplicateBindAddress(t *testing.T) {
	cfg := Default()
	cfg.UDPEcho = cfg.TCPEcho

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint conflict")
}
