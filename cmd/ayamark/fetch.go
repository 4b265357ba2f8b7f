package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mushaftools/ayamark/internal/mushaf"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the page-verse mapping from the mushaf-layout dataset",
		Long: "Downloads the per-page verse lists for all 604 pages and writes " +
			"them as a page_verses.json mapping. Any page failing to download " +
			"aborts the fetch, since a partial mapping would shift every verse " +
			"after the gap.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fetcher := &mushaf.Fetcher{
				BaseURL: cfg.Fetch.BaseURL,
				Client:  &http.Client{Timeout: cfg.FetchTimeout()},
				Progress: func(page int) {
					if page%100 == 0 || page == mushaf.PageCount {
						fmt.Printf("fetched %d/%d pages\n", page, mushaf.PageCount)
					}
				},
			}

			pv, err := fetcher.FetchAll(ctx)
			if err != nil {
				return err
			}
			if err := pv.Save(cfg.Paths.PageVerses); err != nil {
				return err
			}

			if total := pv.Total(); total != mushaf.TotalVerses {
				color.New(color.FgYellow).Printf("warning: mapping covers %d verses, expected %d\n",
					total, mushaf.TotalVerses)
			}
			color.New(color.FgGreen).Printf("wrote %s: %d pages, %d verses\n",
				cfg.Paths.PageVerses, len(pv), pv.Total())
			return nil
		},
	}
}
