package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	securerelay "github.com/securerelay/relay-go"
	"github.com/securerelay/relay-go/internal/config"
)

type relayEnv struct {
	cfg   *config.Config
	relay *securerelay.Relay
}

func runCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one fetch-to-forward flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildRelay(verbose)
			if err != nil {
				return err
			}

			result, err := env.relay.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("forwarded %d records (flow %s)\n", len(result.Records), result.FlowID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log flow progress")
	return cmd
}

func clearCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Ask the sink to discard its stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildRelay(verbose)
			if err != nil {
				return err
			}

			if err := env.relay.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("sink cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log progress")
	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe sink availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildRelay(false)
			if err != nil {
				return err
			}

			if !env.relay.Health(cmd.Context()) {
				fmt.Println("sink unavailable")
				os.Exit(1)
			}
			fmt.Println("sink available")
			return nil
		},
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
