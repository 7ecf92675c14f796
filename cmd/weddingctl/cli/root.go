// Package cli implements the weddingctl command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/weddingdesk/internal/config"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/spf13/cobra"
)

// openStore connects to the database named by DATABASE_URL. Tests replace it.
var openStore = func(ctx context.Context) (store.Store, func(), error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}
	pool, err := store.Connect(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

// Execute builds the command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weddingctl",
		Short: "Administer a weddingdesk deployment",
		Long: `weddingctl manages the weddingdesk database directly.

It applies schema migrations, mints account API keys, and issues temporary
vendor access credentials. Connection settings come from DATABASE_URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newKeyCmd())
	cmd.AddCommand(newAccessCmd())

	return cmd
}
