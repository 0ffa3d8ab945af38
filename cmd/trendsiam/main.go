package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trendsiam",
		Short: "Collect trending stories and serve the ranked home feed",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(collectCmd())
	root.AddCommand(feedCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func collectCmd() *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run story collectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(sources)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "specific sources to collect (e.g., youtube,news)")
	return cmd
}

func feedCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the ranked home feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(jsonOutput, limit)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "max items to show (0 = all)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default from config)")
	return cmd
}
