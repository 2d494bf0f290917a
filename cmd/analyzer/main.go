package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Reddit stock sentiment analyzer",
	Long: `Collects posts mentioning a ticker from the configured communities, scores their
sentiment with a fixed lexicon and turns the weighted result into a recommendation.`,
}

// @title Stock Sentiment Analyzer API
// @version 1.0
// @description Reddit sentiment analysis and recommendations for stock tickers.
// @BasePath /api/v1
func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-analyzer.yaml", "Path to the configuration file")
	rootCmd.AddCommand(shellCmd, analyzeCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyzer CLI: %s\n", err)
		os.Exit(1)
	}
}
