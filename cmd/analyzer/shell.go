package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang-stock-sentiment/internal/analyzer/delivery/cli"
)

var shellNotify bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive analysis shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return cli.NewShell(a.analyzer, os.Stdin, os.Stdout, a.log, shellNotify).Run(ctx)
	},
}

func init() {
	shellCmd.Flags().BoolVar(&shellNotify, "notify", false, "Send every verdict to Telegram")
}
