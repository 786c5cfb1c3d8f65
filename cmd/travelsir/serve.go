package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/travelsir/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves simulations over HTTP (JSON, CSV, Markdown or server-sent events) and exposes Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		check, _ := cmd.Flags().GetBool("check")
		maxWeeks, _ := cmd.Flags().GetInt("max-weeks")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		level := "info"
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = "debug"
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{
			Addr:     ":" + port,
			Check:    check,
			MaxWeeks: maxWeeks,
			LogLevel: level,
			JSONLogs: jsonLogs,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("check", false, "Run the invariant check on every simulation")
	serveCmd.Flags().Int("max-weeks", 0, "Largest horizon a request may ask for (0 keeps the default)")
	serveCmd.Flags().Bool("json-logs", false, "Log JSON lines instead of text")
}
