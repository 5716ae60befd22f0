package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukvisatools/sponsorcheck/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sponsorcheck",
	Short: "UK visa sponsor lookup",
	Long:  "Checks free-text company names and job-posting URLs against the UK register of licensed sponsors, with fuzzy matching and confidence scoring.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
