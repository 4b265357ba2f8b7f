package main

import (
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mushaftools/ayamark/internal/mushaf"
	"github.com/mushaftools/ayamark/internal/pipeline"
)

func newVersesCmd() *cobra.Command {
	var fromCSV bool

	cmd := &cobra.Command{
		Use:   "verses",
		Short: "Derive per-verse highlight regions and write data_verse.csv",
		Long: "Expands each verse into the single-line rectangles covering its " +
			"text and writes one segment per line to data_verse.csv. By default " +
			"the marker positions are read back from data.csv; with " +
			"--from-csv=false a fresh detection pass runs instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var rows []pipeline.MarkerRow
			if fromCSV {
				rows, err = pipeline.LoadMarkerCSV(cfg.Paths.MarkerCSV)
				if err != nil {
					return err
				}
			} else {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				mapping, err := mushaf.LoadPageVerses(cfg.Paths.PageVerses)
				if err != nil {
					return err
				}
				result, err := runDetection(ctx, cfg, mapping, false)
				if err != nil {
					return err
				}
				printIssues(result.Issues)
				rows = result.Rows
			}

			segments := pipeline.BuildSegments(rows)
			if err := pipeline.WriteSegmentCSV(cfg.Paths.SegmentCSV, segments); err != nil {
				return err
			}

			color.New(color.FgGreen).Printf("wrote %s: %d segments for %d verses\n",
				cfg.Paths.SegmentCSV, len(segments), len(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromCSV, "from-csv", true, "Read marker positions from data.csv instead of running detection")
	return cmd
}
