package cmd

import (
	"fmt"
	"os"

	"library-rental/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "library-rental",
	Short: "Library Rental Service",
	Long: `Library Rental serves the book catalog, rentals and favorites over a
GraphQL API, backed by a relational store with a Redis result cache.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format because this is a CLI surface, and "debug" level
		// configuration to get ISO8601 timestamps instead of Epoch
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
