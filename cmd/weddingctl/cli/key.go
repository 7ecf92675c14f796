package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/kiranshivaraju/weddingdesk/internal/apikey"
	"github.com/spf13/cobra"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "key",
		Aliases: []string{"apikey"},
		Short:   "Manage account API keys",
	}

	cmd.AddCommand(newKeyCreateCmd())
	cmd.AddCommand(newKeyListCmd())

	return cmd
}

func newKeyCreateCmd() *cobra.Command {
	var (
		name   string
		scopes []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key for the default account",
		Long:  "Generate a new API key. The raw key is shown once and cannot be retrieved again.",
		Example: `  weddingctl key create --name planner-ui
  weddingctl key create --name ops --scopes read,write,admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, closeFn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			account, err := st.GetDefaultAccount(ctx)
			if err != nil {
				return fmt.Errorf("load default account: %w", err)
			}

			key, raw, err := apikey.New(account.ID, name, scopes)
			if err != nil {
				return err
			}
			if err := st.CreateAPIKey(ctx, key); err != nil {
				return fmt.Errorf("create api key: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "API key created:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Key:    %s\n", raw)
			fmt.Fprintf(out, "  Name:   %s\n", key.Name)
			fmt.Fprintf(out, "  Scopes: %s\n", strings.Join(key.Scopes, ","))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  Save this key now - it cannot be retrieved again.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Human-readable name for the key (required)")
	cmd.Flags().StringSliceVar(&scopes, "scopes", []string{"read", "write"}, "Scopes granted to the key")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active API keys for the default account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, closeFn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			account, err := st.GetDefaultAccount(ctx)
			if err != nil {
				return fmt.Errorf("load default account: %w", err)
			}
			keys, err := st.ListAPIKeys(ctx, account.ID)
			if err != nil {
				return fmt.Errorf("list api keys: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPREFIX\tSCOPES\tLAST USED")
			for _, k := range keys {
				lastUsed := "never"
				if k.LastUsedAt != nil {
					lastUsed = k.LastUsedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					k.ID, k.Name, k.KeyPrefix, strings.Join(k.Scopes, ","), lastUsed)
			}
			return w.Flush()
		},
	}
}
