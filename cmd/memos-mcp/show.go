// ABOUTME: Show command for displaying a single memo.
// ABOUTME: Renders markdown content with glamour.

package main

import (
	"fmt"

	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a memo",
	Long:  `Display a memo's full content with rendered markdown. The name may be memos/<id> or just <id>.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		if err := validateFormat(formatFlag); err != nil {
			return err
		}

		memo, err := client.GetMemo(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get memo: %w", err)
		}

		if done, err := writeStructured(cmd.OutOrStdout(), formatFlag, newMemoRecord(memo)); done {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, ui.FormatMemoHeader(memo))
		content, _ := ui.FormatMemoContent(memo.Content)
		fmt.Fprint(out, content)
		return nil
	},
}

func init() {
	showCmd.Flags().String("format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(showCmd)
}
