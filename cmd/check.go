package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukvisatools/sponsorcheck/internal/format"
	"github.com/ukvisatools/sponsorcheck/internal/sponsor"
)

var checkThreshold float64

var checkCmd = &cobra.Command{
	Use:   "check <company name>",
	Short: "Check whether a company is a registered sponsor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		reg, err := sponsor.Load(cmd.Context(), cfg.Register.Path)
		if err != nil {
			return err
		}

		printMatches(cmd, reg, query, effectiveThreshold(cmd, checkThreshold))
		return nil
	},
}

// effectiveThreshold falls back to the configured default when the flag
// was not set explicitly.
func effectiveThreshold(cmd *cobra.Command, flagValue float64) float64 {
	if cmd.Flags().Changed("threshold") {
		return flagValue
	}
	return cfg.Search.Threshold
}

// printMatches renders up to five deduplicated matches plus the verdict
// banner shared by check and url.
func printMatches(cmd *cobra.Command, reg *sponsor.Registry, query string, threshold float64) {
	results := format.Deduplicate(reg.Search(query, threshold, cfg.Search.MaxResults))

	if len(results) == 0 {
		cmd.Println("No matching sponsors found")
		return
	}

	shown := results
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, m := range shown {
		cmd.Println(format.Result(m))
		cmd.Println()
	}

	cmd.Println(strings.Repeat("-", 50))
	cmd.Println(format.Verdict(results[0].Score))
	cmd.Println(strings.Repeat("-", 50))
}

func init() {
	checkCmd.Flags().Float64VarP(&checkThreshold, "threshold", "t", 0, "match threshold in [0,1] (default from config)")
	rootCmd.AddCommand(checkCmd)
}
