package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/polyphonic/polyphonic/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	if err := appCommand(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func appCommand(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "polyphonic",
		Usage:    "Mirror and serve Subsonic-family music libraries",
		Version:  "0.1.0",
		Commands: runner.register(),
	}
}
