package main

import (
	"fmt"

	"github.com/banshee-data/countmap/internal/heatmap"
	"github.com/spf13/cobra"
)

func newColorMapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "colormaps",
		Short: "List the available color maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range heatmap.ColorMapNames() {
				if name == heatmap.DefaultColorMap {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
