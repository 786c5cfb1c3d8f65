package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir/internal/cli"
)

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the default scenario to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "scenario.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		return cli.InitScenario(path, force, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
