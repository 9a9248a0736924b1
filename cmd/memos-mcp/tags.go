// ABOUTME: Tags command listing every tag in use.
// ABOUTME: Prints tags as #hashtags or as JSON/YAML.

package main

import (
	"fmt"

	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		if err := validateFormat(formatFlag); err != nil {
			return err
		}

		tags, err := client.ListTags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		if done, err := writeStructured(cmd.OutOrStdout(), formatFlag, tags); done {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.FormatTagList(tags))
		return nil
	},
}

func init() {
	tagsCmd.Flags().String("format", formatText, "output format: text, json, or yaml")
	rootCmd.AddCommand(tagsCmd)
}
