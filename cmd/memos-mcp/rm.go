// ABOUTME: Remove command for deleting memos.
// ABOUTME: Includes confirmation prompt before deletion.

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a memo",
	Long:  `Permanently delete a memo from the Memos instance.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		if !force {
			memo, err := client.GetMemo(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("failed to get memo: %w", err)
			}
			fmt.Fprintf(out, "Delete memo %q (%s)? [y/N] ", ui.Title(memo.Content), memo.Name)
			reader := bufio.NewReader(cmd.InOrStdin())
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			name = memo.Name
		}

		if err := client.DeleteMemo(cmd.Context(), name); err != nil {
			return fmt.Errorf("failed to delete memo: %w", err)
		}

		fmt.Fprintln(out, ui.Success(fmt.Sprintf("Deleted memo %s", name)))
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
