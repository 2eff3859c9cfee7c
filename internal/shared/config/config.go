package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/types"
)

// Default returns the fixed endpoint table the harness ships with.
// These ports mirror what reqly's client tests expect to dial.
func Default() *types.Config {
	return &types.Config{
		LogConf:       types.LogConf{Level: "info"},
		TCPEcho:       types.EndpointConf{Host: "127.0.0.1", Port: 5007},
		UDPEcho:       types.EndpointConf{Host: "127.0.0.1", Port: 5006},
		WSEcho:        types.EndpointConf{Host: "localhost", Port: 8765},
		BroadcastEcho: types.EndpointConf{Host: "localhost", Port: 5001},
	}
}

// Load fills cfg from the ini behavior file, then applies .env and process
// environment overrides. A missing ini file is not an error: the defaults
// already describe a runnable harness.
func Load(cfg *types.Config, fileName string) error {
	// .env is optional; it only seeds the process environment.
	_ = godotenv.Load()

	if fileName != "" {
		iniFile, err := ini.Load(fileName)
		if err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load config file: %w", err)
			}
		} else if err := iniFile.MapTo(cfg); err != nil {
			return fmt.Errorf("failed to map config file: %w", err)
		}
	}

	overrideFromEnvString(&cfg.LogConf.Level, "SERVERTEST_LOG_LEVEL")
	overrideFromEnvInt(&cfg.TCPEcho.Port, "SERVERTEST_TCP_PORT")
	overrideFromEnvInt(&cfg.UDPEcho.Port, "SERVERTEST_UDP_PORT")
	overrideFromEnvInt(&cfg.WSEcho.Port, "SERVERTEST_WS_PORT")
	overrideFromEnvInt(&cfg.BroadcastEcho.Port, "SERVERTEST_BROADCAST_PORT")

	return Validate(cfg)
}

// Validate rejects configurations where two servers would race for the same
// bind address.
func Validate(cfg *types.Config) error {
	seen := make(map[string]string)
	for name, ep := range cfg.Endpoints() {
		addr := ep.Addr()
		if other, ok := seen[addr]; ok {
			return fmt.Errorf("endpoint conflict: %s and %s both bind %s", other, name, addr)
		}
		seen[addr] = name
	}
	return nil
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}

func overrideFromEnvInt(target *int, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
