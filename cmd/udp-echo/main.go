package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ScriptWare-Software/reqly-servertest/internal/server/udpecho"
	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/config"
	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

func main() {
	configPath := flag.String("config", "configs/servertest.ini", "Path to config file")
	flag.Parse()

	cfg := config.Default()
	if err := config.Load(cfg, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	srv, err := udpecho.New(cfg.UDPEcho.Addr())
	if err != nil {
		logger.Fatal().Err(err).Msgf("Failed to bind %s", cfg.UDPEcho.Addr())
	}
	if err := srv.Serve(); err != nil {
		logger.Fatal().Err(err).Msg("Server error")
	}
}
