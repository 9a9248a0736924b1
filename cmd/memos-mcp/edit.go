// ABOUTME: Edit command for modifying existing memos.
// ABOUTME: Edits content in $EDITOR or inline, and changes visibility, archive, or pin state.

package main

import (
	"fmt"

	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/models"
	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a memo",
	Long: `Change a memo. With no flags the content opens in $EDITOR. --content
replaces it inline; --visibility, --archive, --restore, --pin, and --unpin
change metadata without touching the text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		flags := cmd.Flags()

		var patch memos.MemoPatch
		if flags.Changed("content") {
			content, _ := flags.GetString("content")
			patch.Content = &content
		}
		if flags.Changed("visibility") {
			raw, _ := flags.GetString("visibility")
			v, err := models.ParseVisibility(raw)
			if err != nil {
				return err
			}
			patch.Visibility = &v
		}

		archive, _ := flags.GetBool("archive")
		restore, _ := flags.GetBool("restore")
		if archive && restore {
			return fmt.Errorf("--archive and --restore are mutually exclusive")
		}
		if archive || restore {
			status := models.StatusNormal
			if archive {
				status = models.StatusArchived
			}
			patch.RowStatus = &status
		}

		pin, _ := flags.GetBool("pin")
		unpin, _ := flags.GetBool("unpin")
		if pin && unpin {
			return fmt.Errorf("--pin and --unpin are mutually exclusive")
		}
		if pin || unpin {
			patch.Pinned = &pin
		}

		if patch.IsEmpty() {
			memo, err := client.GetMemo(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("failed to get memo: %w", err)
			}
			newContent, err := openEditor(memo.Content)
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
			if newContent == memo.Content {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes made.")
				return nil
			}
			patch.Content = &newContent
			name = memo.Name
		}

		memo, err := client.UpdateMemo(cmd.Context(), name, patch)
		if err != nil {
			return fmt.Errorf("failed to update memo: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Updated memo %s", memo.Name)))
		return nil
	},
}

func init() {
	editCmd.Flags().String("content", "", "replace content inline")
	editCmd.Flags().String("visibility", "", "private, protected, or public")
	editCmd.Flags().Bool("archive", false, "archive the memo")
	editCmd.Flags().Bool("restore", false, "restore an archived memo")
	editCmd.Flags().Bool("pin", false, "pin the memo")
	editCmd.Flags().Bool("unpin", false, "unpin the memo")
	rootCmd.AddCommand(editCmd)
}
