package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of travelsir",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "travelsir version %s\n", strings.TrimSpace(travelsir.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
