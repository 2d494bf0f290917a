package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"golang-stock-sentiment/internal/analyzer/delivery/cli"
	"golang-stock-sentiment/internal/analyzer/service"
)

var (
	analyzeNotify  bool
	analyzeJSON    bool
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Analyze one ticker and exit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		if !analyzeJSON {
			sh := cli.NewShell(a.analyzer, os.Stdin, os.Stdout, a.log, analyzeNotify)
			sh.Execute(ctx, "analyze "+args[0])
			return nil
		}

		result, err := a.analyzer.Analyze(ctx, args[0], service.AnalyzeOptions{Notify: analyzeNotify})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeNotify, "notify", false, "Send the verdict to Telegram")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full result as JSON")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "Overall analysis timeout")
}
