package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/logging"
)

var (
	envFile  string
	logLevel string

	// Build information, set with -ldflags
	Version   = "dev"
	GitCommit = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbinv",
	Short: "Cloud database inventory tool",
	Long: "Normalize AWS and Azure database inventory exports, import them into " +
		"the inventory database, and manage its schema.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		// stdout carries reports; logs go to stderr
		logging.SetupWriter(os.Stderr, logLevel, "text")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "dbinv %s (commit %s, %s %s/%s)\n",
				Version, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file applied over the environment if present")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importVMsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
