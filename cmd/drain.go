package cmd

import (
	"context"
	"log"

	"library-rental/client/api"
	"library-rental/client/outbox"
	"library-rental/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	drainDBPath   string
	drainEndpoint string
	drainToken    string
)

// drainCmd represents the drain command. It replays a local sync ledger
// against a running server, useful when debugging offline sync issues.
var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Replay a local sync ledger against the server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &logger.Config{Level: "debug", Format: "console"}
		logg, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		ledger, err := outbox.Open(drainDBPath, logg)
		if err != nil {
			logg.Fatal("Failed to open ledger", zap.Error(err))
		}

		var token api.TokenFunc
		if drainToken != "" {
			token = func(context.Context) (string, error) { return drainToken, nil }
		}
		client := api.New(drainEndpoint, token, logg)

		if err := ledger.Drain(cmd.Context(), client.Apply); err != nil {
			logg.Fatal("Drain failed", zap.Error(err))
		}
	},
}

func init() {
	drainCmd.Flags().StringVar(&drainDBPath, "db", "sync_queue.db", "path to the ledger database")
	drainCmd.Flags().StringVar(&drainEndpoint, "endpoint", "http://localhost:8080/api/graphql", "GraphQL endpoint")
	drainCmd.Flags().StringVar(&drainToken, "token", "", "bearer token for authenticated replay")
	RootCmd.AddCommand(drainCmd)
}
