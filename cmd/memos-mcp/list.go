// ABOUTME: List command for displaying memos from the Memos instance.
// ABOUTME: Supports filtering by tag, visibility, archive state, and content search.

package main

import (
	"fmt"

	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/models"
	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List memos",
	Long:  `List recent memos, optionally filtered by tag, visibility, or a content search.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tagFlag, _ := cmd.Flags().GetString("tag")
		searchFlag, _ := cmd.Flags().GetString("search")
		limitFlag, _ := cmd.Flags().GetInt("limit")
		visibilityFlag, _ := cmd.Flags().GetString("visibility")
		archivedFlag, _ := cmd.Flags().GetBool("archived")
		tokenFlag, _ := cmd.Flags().GetString("page-token")
		formatFlag, _ := cmd.Flags().GetString("format")

		if err := validateFormat(formatFlag); err != nil {
			return err
		}

		var page *memos.MemoPage
		var err error
		if searchFlag != "" {
			page, err = client.SearchMemos(cmd.Context(), memos.SearchOptions{
				Query:     searchFlag,
				PageSize:  limitFlag,
				PageToken: tokenFlag,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
		} else {
			opts := memos.ListOptions{
				PageSize:  limitFlag,
				PageToken: tokenFlag,
				Tag:       tagFlag,
			}
			if visibilityFlag != "" {
				if opts.Visibility, err = models.ParseVisibility(visibilityFlag); err != nil {
					return err
				}
			}
			if archivedFlag {
				opts.RowStatus = models.StatusArchived
			}
			page, err = client.ListMemos(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list memos: %w", err)
			}
		}

		records := make([]memoRecord, 0, len(page.Memos))
		for _, m := range page.Memos {
			records = append(records, newMemoRecord(m))
		}
		if done, err := writeStructured(cmd.OutOrStdout(), formatFlag, records); done {
			return err
		}

		out := cmd.OutOrStdout()
		if len(page.Memos) == 0 {
			fmt.Fprintln(out, "No memos found.")
			return nil
		}
		for _, m := range page.Memos {
			fmt.Fprint(out, ui.FormatMemoListItem(m))
		}
		fmt.Fprint(out, ui.FormatNextPage(page.NextPageToken))
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("tag", "t", "", "filter by tag")
	listCmd.Flags().StringP("search", "s", "", "only memos whose content contains this text")
	listCmd.Flags().IntP("limit", "n", memos.DefaultPageSize, "maximum memos to show")
	listCmd.Flags().String("visibility", "", "filter by visibility (private, protected, public)")
	listCmd.Flags().Bool("archived", false, "show archived memos instead of active ones")
	listCmd.Flags().String("page-token", "", "continue from a previous page")
	listCmd.Flags().String("format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(listCmd)
}
