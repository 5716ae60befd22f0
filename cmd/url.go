package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukvisatools/sponsorcheck/internal/extract"
	"github.com/ukvisatools/sponsorcheck/internal/sponsor"
)

var (
	urlThreshold  float64
	urlFetchTitle bool
)

var urlCmd = &cobra.Command{
	Use:   "url <job posting url>",
	Short: "Extract the company from a job-posting URL and check it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawURL := args[0]

		company, ok := extract.Company(rawURL)
		if !ok && urlFetchTitle {
			// Best-effort page scrape, only on explicit request.
			fetched, err := extract.NewTitleFetcher().FetchCompany(cmd.Context(), rawURL)
			if err != nil {
				zap.L().Debug("page title fetch failed", zap.String("url", rawURL), zap.Error(err))
			} else if fetched != "" {
				company, ok = extract.CleanCompanyName(fetched)
			}
		}
		if !ok {
			cmd.Println("Could not extract company name from URL")
			cmd.Println("Try `sponsorcheck check` with the company name directly")
			return nil
		}

		cmd.Printf("Detected company: %q\n\n", company)

		reg, err := sponsor.Load(cmd.Context(), cfg.Register.Path)
		if err != nil {
			return err
		}

		printMatches(cmd, reg, company, effectiveThreshold(cmd, urlThreshold))
		return nil
	},
}

func init() {
	urlCmd.Flags().Float64VarP(&urlThreshold, "threshold", "t", 0, "match threshold in [0,1] (default from config)")
	urlCmd.Flags().BoolVar(&urlFetchTitle, "fetch-title", false, "fetch the page and try to scrape the company when URL extraction fails")
	rootCmd.AddCommand(urlCmd)
}
