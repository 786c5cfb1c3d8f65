package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir/internal/cli"
	"github.com/aretw0/travelsir/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "travelsir",
	Short: "travelsir simulates an epidemic across two groups of travellers",
	Long: `travelsir advances a discrete SIR model for two population groups whose
members temporarily travel to the other group, and reports the resulting
time series as a table, CSV, JSON, Markdown or a chart.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Scenario file (YAML or JSON); defaults to the built-in scenario")
	rootCmd.PersistentFlags().StringArray("set", nil, fmt.Sprintf("Override a parameter, key=value (keys: %v)", config.Keys()))
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

func scenarioFlags(cmd *cobra.Command) cli.ScenarioOptions {
	path, _ := cmd.Flags().GetString("config")
	overrides, _ := cmd.Flags().GetStringArray("set")
	return cli.ScenarioOptions{ConfigPath: path, Overrides: overrides}
}
