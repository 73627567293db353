package main

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/countmap/internal/config"
	"github.com/banshee-data/countmap/internal/counts"
	"github.com/banshee-data/countmap/internal/fsutil"
	"github.com/banshee-data/countmap/internal/pipeline"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a count dump without rendering it",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	cmd.Flags().StringP("input", "i", "", "Input count dump")
	cmd.Flags().Int("width", config.DefaultRowWidth, "Cells per row")
	cmd.Flags().Bool("strict", false, "Reject input that does not fill the last row")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	width, _ := cmd.Flags().GetInt("width")
	strict, _ := cmd.Flags().GetBool("strict")
	asJSON, _ := cmd.Flags().GetBool("json")

	values, err := counts.ReadFile(fsutil.OSFileSystem{}, inputPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	grid, err := pipeline.Reshape(values, width, strict)
	if err != nil {
		return fmt.Errorf("reshape: %w", err)
	}
	s := counts.Summarize(grid)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(out, "File:     %s\n", inputPath)
	fmt.Fprintf(out, "Grid:     %d x %d cells (last row %d)\n", s.Width, s.Rows, s.LastRow)
	fmt.Fprintf(out, "Count:    %d\n", s.Count)
	fmt.Fprintf(out, "Range:    %g .. %g\n", s.Min, s.Max)
	fmt.Fprintf(out, "Sum:      %g\n", s.Sum)
	fmt.Fprintf(out, "Mean:     %.3f (stddev %.3f)\n", s.Mean, s.StdDev)
	fmt.Fprintf(out, "Median:   %g\n", s.Median)
	fmt.Fprintf(out, "P95:      %g\n", s.P95)
	return nil
}
