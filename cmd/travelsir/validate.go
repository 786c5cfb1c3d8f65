package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario's parameters",
	Long:  `Loads the scenario, applies overrides and reports every parameter outside its domain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(scenarioFlags(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
