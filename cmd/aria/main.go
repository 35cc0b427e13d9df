// Command aria runs the assistant's decision core behind an
// interactive terminal chat.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aria-ai/aria/internal/config"
	"github.com/aria-ai/aria/internal/logging"
	"github.com/aria-ai/aria/internal/memory"
	"github.com/aria-ai/aria/internal/pipeline"
	"github.com/aria-ai/aria/internal/state"
	"github.com/aria-ai/aria/internal/tools"
	"github.com/aria-ai/aria/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "aria:", err)
		os.Exit(1)
	}
}

func run() error {
	home, _ := os.UserHomeDir()
	defaultConfig := filepath.Join(home, ".aria", "config.toml")

	configPath := flag.String("config", defaultConfig, "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, cfg.Paths.LogsDir)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store := state.New()

	var log *memory.Store
	if cfg.Paths.SessionDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Paths.SessionDB), 0755); err == nil {
			log, err = memory.Open(cfg.Paths.SessionDB)
			if err != nil {
				logger.Warn("session log unavailable", zap.Error(err))
				log = nil
			}
		}
	}
	if log != nil {
		defer log.Close()
	}

	registry := tools.NewRegistry()
	desktop := tools.NewDesktop(store)
	desktop.RegisterAll(registry)
	executor := tools.NewExecutor(registry, store, logger)

	pipe := pipeline.New(cfg, store, executor, log, nil, logger)

	return tui.Run(pipe, store)
}
