package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ScriptWare-Software/reqly-servertest/internal/launcher"
	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/config"
	"github.com/ScriptWare-Software/reqly-servertest/internal/shared/logger"
)

// serverBinaries are the echo servers started by default, resolved as
// siblings of the launcher executable.
var serverBinaries = []string{
	"tcp-echo",
	"udp-echo",
	"ws-echo",
	"broadcast-echo",
}

func defaultServerPaths() ([]string, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(self)

	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}

	paths := make([]string, 0, len(serverBinaries))
	for _, name := range serverBinaries {
		paths = append(paths, filepath.Join(dir, name+suffix))
	}
	return paths, nil
}

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

	// Positional arguments override the default sibling binaries.
	paths := flag.Args()
	if len(paths) == 0 {
		var err error
		paths, err = defaultServerPaths()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to resolve server binaries")
		}
	}

	l := launcher.New()
	l.LaunchAll(paths)
	l.WaitForCancellation()
	l.TerminateAll()
}
