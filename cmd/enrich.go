package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukvisatools/sponsorcheck/internal/enrich"
	"github.com/ukvisatools/sponsorcheck/internal/store"
	"github.com/ukvisatools/sponsorcheck/pkg/gsearch"
)

var (
	enrichRefreshStale bool
	enrichRefreshLimit int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [company name]",
	Short: "Look up external profile links for a company",
	Long:  "Resolves LinkedIn/website profiles through the local cache, Google Custom Search when configured, or algorithmic search links. --refresh-stale re-enriches expired cache entries instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := store.New(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck
		if err := db.Migrate(ctx); err != nil {
			return err
		}

		var search gsearch.Client
		if cfg.Google.APIKey != "" && cfg.Google.CX != "" {
			search = gsearch.NewClient(cfg.Google.APIKey, cfg.Google.CX)
		}
		enricher := enrich.New(db, search, time.Duration(cfg.Cache.TTLDays)*24*time.Hour)

		if enrichRefreshStale {
			refreshed, stale, err := enricher.RefreshStale(ctx, enrichRefreshLimit, 2)
			if err != nil {
				return err
			}
			zap.L().Info("stale refresh complete", zap.Int("refreshed", refreshed), zap.Int("stale", stale))
			cmd.Printf("Refreshed %d of %d stale entries\n", refreshed, stale)
			return nil
		}

		if len(args) == 0 {
			return eris.New("company name is required (or pass --refresh-stale)")
		}

		profile, source, err := enricher.Enrich(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(struct {
			store.Profile
			Source string `json:"source"`
		}{profile, source}, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal profile")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichRefreshStale, "refresh-stale", false, "refresh expired cache entries")
	enrichCmd.Flags().IntVar(&enrichRefreshLimit, "limit", 50, "maximum stale entries to refresh")
	rootCmd.AddCommand(enrichCmd)
}
