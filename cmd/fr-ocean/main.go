package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/config"
	"github.com/jack-chaudier/fr-ocean-engine/internal/game"
)

const version = "0.3.0"

func main() {
	resources := flag.String("resources", "resources", "path to the game resources directory")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fr-ocean %s\n", version)
		return
	}

	log := newLogger(*debug)
	defer log.Sync()

	cfg, err := config.Load(*resources)
	if err != nil {
		fatal(log, "startup failed", err)
	}

	if err := game.New(cfg, log).Run(); err != nil {
		fatal(log, "fatal", err)
	}
}

// fatal flushes the log before exiting: os.Exit skips deferred Syncs.
func fatal(log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	_ = log.Sync()
	os.Exit(1)
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	return log
}
