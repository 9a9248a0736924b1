// ABOUTME: Check command verifying configuration and connectivity.
// ABOUTME: Calls the current-user endpoint once and reports who the token belongs to.

package main

import (
	"fmt"

	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Memos connection",
	Long:  `Validate settings and make one authenticated request to confirm the base URL and access token work.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("connection check failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Connected to %s as %s", settings.APIURL(), user.DisplayName())))
		if user.Role != "" {
			fmt.Fprintf(out, "  Role: %s\n", user.Role)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
