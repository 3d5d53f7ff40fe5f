// Command relayctl drives the relay pipeline from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/securerelay/relay-go/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "relayctl",
		Short:         "Secure record relay CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(sealCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildRelay(verbose bool) (*relayEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	relay, err := config.BuildRelay(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &relayEnv{cfg: cfg, relay: relay}, nil
}
