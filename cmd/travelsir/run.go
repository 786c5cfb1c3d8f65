package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation and print the report",
	Long:  `Runs the scenario for its full horizon and writes every week's compartments to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		chartPath, _ := cmd.Flags().GetString("chart")
		check, _ := cmd.Flags().GetBool("check")
		strict, _ := cmd.Flags().GetBool("strict")
		tolerance, _ := cmd.Flags().GetFloat64("tolerance")
		debug, _ := cmd.Flags().GetBool("debug")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Run(ctx, cli.RunOptions{
			ScenarioOptions: scenarioFlags(cmd),
			Format:          format,
			ChartPath:       chartPath,
			Check:           check,
			Strict:          strict,
			Tolerance:       tolerance,
			Debug:           debug,
			Quiet:           quiet,
			Stdout:          cmd.OutOrStdout(),
			Stderr:          cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("format", "f", cli.FormatText, fmt.Sprintf("Output format %v", cli.Formats))
	runCmd.Flags().String("chart", "", "Also write a 2x2 PNG chart to this file")
	runCmd.Flags().Bool("check", false, "Check conservation and clamping at every step and report anomalies")
	runCmd.Flags().Bool("strict", false, "Abort on the first anomaly (implies --check)")
	runCmd.Flags().Float64("tolerance", 0, "Relative conservation tolerance for --check (0 selects the default)")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress banner and status lines")
}
