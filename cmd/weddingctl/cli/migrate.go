package cli

import (
	"fmt"

	"github.com/kiranshivaraju/weddingdesk/internal/config"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "Directory holding the migration files")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			if err := store.RunMigrations(dbCfg.URL, dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbCfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			if err := store.RollbackMigrations(dbCfg.URL, dir, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s).\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
