package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	baseURL  string
	timeout  time.Duration
	currency string
	style    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "cajactl",
		Short:         "Caja CLI tool",
		Long:          `A command line interface for the caja cash drawer, purchase and loan API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the caja API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.currency, "currency", "MXN", "Currency used to display amounts")
	rootCmd.PersistentFlags().StringVar(&opts.style, "style", "auto", "Report style: auto, dark, light, notty")

	rootCmd.AddCommand(
		calcCmd(),
		sessionCmd(opts),
		purchaseCmd(opts),
		loanCmd(opts),
		migrateCmd(),
	)

	return rootCmd
}
