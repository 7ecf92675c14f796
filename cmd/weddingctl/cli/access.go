package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/access"
	"github.com/spf13/cobra"
)

func newAccessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Manage vendor access credentials",
	}
	cmd.AddCommand(newAccessIssueCmd())
	return cmd
}

func newAccessIssueCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "issue <vendor-id>",
		Short: "Issue a temporary access credential to a vendor",
		Long: `Issue a new access token and password for a vendor. Both are printed once;
only a hash of the password is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vendorID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid vendor id %q: %w", args[0], err)
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}

			ctx := cmd.Context()
			st, closeFn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			issued, err := access.NewService(st, access.WithTTL(ttl)).IssueAccess(ctx, vendorID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Vendor access issued:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Vendor:       %s\n", issued.VendorID)
			fmt.Fprintf(out, "  Access token: %s\n", issued.AccessToken)
			fmt.Fprintf(out, "  Password:     %s\n", issued.Password)
			fmt.Fprintf(out, "  Expires:      %s\n", issued.ExpiresAt.Format(time.RFC3339))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  Send both values to the vendor now - the password cannot be shown again.")
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", access.DefaultCredentialTTL, "How long the credential stays valid")

	return cmd
}
