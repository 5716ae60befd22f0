package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukvisatools/sponsorcheck/internal/fetcher"
	"github.com/ukvisatools/sponsorcheck/internal/store"
)

const registerETagKey = "register_etag"

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the published sponsor register",
	Long:  "Downloads the register CSV to the configured path. Uses a conditional request against the last seen ETag, so unchanged publications are skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		url := fetchURL
		if url == "" {
			url = cfg.Register.URL
		}
		if url == "" {
			return eris.New("register URL is required (--url or SPONSOR_REGISTER_URL); find the current CSV asset at https://www.gov.uk/government/publications/register-of-licensed-sponsors-workers")
		}

		db, err := store.New(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck
		if err := db.Migrate(ctx); err != nil {
			return err
		}

		etag, err := db.GetMeta(ctx, registerETagKey)
		if err != nil {
			return err
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
		newETag, n, changed, err := f.DownloadToFile(ctx, url, etag, cfg.Register.Path)
		if err != nil {
			return eris.Wrap(err, "fetch register")
		}
		if !changed {
			zap.L().Info("register unchanged", zap.String("etag", etag))
			cmd.Println("Register unchanged since last fetch")
			return nil
		}

		if err := db.SetMeta(ctx, registerETagKey, newETag); err != nil {
			return err
		}

		zap.L().Info("register downloaded",
			zap.String("path", cfg.Register.Path),
			zap.Int64("bytes", n),
			zap.String("etag", newETag),
		)
		cmd.Printf("Downloaded %d bytes to %s\n", n, cfg.Register.Path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "register CSV URL (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
