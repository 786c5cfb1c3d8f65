package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir/internal/cli"
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Print the compartment model as a Mermaid flowchart",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, _ := cmd.Flags().GetInt("week")
		return cli.Diagram(cmd.Context(), scenarioFlags(cmd), week, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(diagramCmd)
	diagramCmd.Flags().Int("week", -1, "Label the diagram with the values of this week")
}
