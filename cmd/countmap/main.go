// Command countmap renders comma-separated count dumps as heatmap images.
package main

import (
	"fmt"
	"os"

	"github.com/banshee-data/countmap/internal/config"
	"github.com/banshee-data/countmap/internal/monitoring"
	"github.com/banshee-data/countmap/internal/version"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "countmap",
		Short:         "Render per-pixel count dumps as false-color heatmaps",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return monitoring.Setup(level, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (none, trace, debug, info, warn, error)")

	rootCmd.AddCommand(newRenderCmd(), newStatsCmd(), newColorMapsCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
