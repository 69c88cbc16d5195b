package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "qbstats",
	Short: "Quarterback season stats scraper and analyzer",
	Long:  "Scrapes quarterback passing, rushing, and standings tables, joins them into one dataset per season, and analyzes playoff versus eliminated quarterbacks.",
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
