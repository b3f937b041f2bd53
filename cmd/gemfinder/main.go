// cmd/gemfinder/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "gemfinder",
	Short: "Browse hidden gems from the command line",
	Long: `gemfinder lists places ("gems") from the gems REST API.

It fetches one server page at a time, keeps accepted gems, optionally narrows
them to a category route, and filters the page by rating, location and
category. serve-backend runs a local PostgreSQL-backed API to point it at.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWishlistCmd())
	rootCmd.AddCommand(newServeBackendCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
