package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mushaftools/ayamark/internal/config"
	"github.com/mushaftools/ayamark/internal/mushaf"
	"github.com/mushaftools/ayamark/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	var annotate bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Detect aya markers on every page scan and write data.csv",
		Long: "Runs marker detection over all 604 page scans, pairs the detected " +
			"markers with the page-verse mapping, and writes one normalized row " +
			"per verse to data.csv. Pages whose marker count cannot be " +
			"reconciled are listed for manual review instead of aborting the run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mapping, err := mushaf.LoadPageVerses(cfg.Paths.PageVerses)
			if err != nil {
				return err
			}

			result, err := runDetection(ctx, cfg, mapping, annotate)
			if err != nil {
				return err
			}
			if err := pipeline.WriteMarkerCSV(cfg.Paths.MarkerCSV, result.Rows); err != nil {
				return err
			}

			printIssues(result.Issues)
			verifyRows(result.Rows, mapping)

			color.New(color.FgGreen).Printf("wrote %s: %d rows\n", cfg.Paths.MarkerCSV, len(result.Rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&annotate, "annotate", false, "Write annotated page copies to the configured annotate_dir")
	return cmd
}

// runDetection runs the full per-page detection pass. Shared by generate and
// by verses when asked to detect instead of reading data.csv back.
func runDetection(ctx context.Context, cfg *config.Config, mapping mushaf.PageVerses, annotate bool) (*pipeline.Result, error) {
	templates, err := pipeline.LoadTemplates(cfg.Paths.OpeningTemplate, cfg.Paths.StandardTemplate)
	if err != nil {
		return nil, err
	}

	detector := pipeline.NewPageDetector(cfg.Paths.ImagesDir, templates, cfg.Options())
	gen := pipeline.NewGenerator(detector, mapping)
	if annotate {
		gen.AnnotateDir = cfg.Paths.AnnotateDir
	}
	gen.Progress = func(page int) {
		if page%100 == 0 || page == mushaf.PageCount {
			fmt.Printf("processed %d/%d pages\n", page, mushaf.PageCount)
		}
	}

	return gen.Run(ctx)
}

// printIssues lists pages whose detection count never matched.
func printIssues(issues []pipeline.Issue) {
	if len(issues) == 0 {
		color.New(color.FgGreen).Println("all pages matched their expected marker count")
		return
	}

	warn := color.New(color.FgYellow)
	warn.Printf("%d pages need manual review:\n", len(issues))
	for _, issue := range issues {
		warn.Printf("  page %d: expected %d markers, detected %d (%s)\n",
			issue.Page, issue.Expected, issue.Detected, issue.Method)
	}
}

// verifyPages are the spot-check pages printed after a run: the two opening
// pages, two ordinary pages, and the last page.
var verifyPages = []int{1, 2, 22, 50, 604}

// verifyRows prints the first and last verse of a handful of pages so a run
// can be eyeballed against a printed mushaf.
func verifyRows(rows []pipeline.MarkerRow, mapping mushaf.PageVerses) {
	byPage := make(map[int][]pipeline.MarkerRow)
	for _, r := range rows {
		byPage[r.Page] = append(byPage[r.Page], r)
	}

	fmt.Println("spot check:")
	for _, page := range verifyPages {
		pageRows := byPage[page]
		if len(pageRows) == 0 {
			continue
		}
		first, last := pageRows[0], pageRows[len(pageRows)-1]
		fmt.Printf("  page %d: %d verses (expected %d), %d:%d .. %d:%d\n",
			page, len(pageRows), len(mapping[page]),
			first.Surah, first.Verse, last.Surah, last.Verse)
	}
}
