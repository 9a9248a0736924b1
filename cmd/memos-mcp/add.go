// ABOUTME: Add command for creating new memos.
// ABOUTME: Supports inline content, file input, or $EDITOR.

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/harper/memos-mcp/internal/models"
	"github.com/harper/memos-mcp/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a new memo",
	Long:  `Create a new memo. Content can be given as an argument, via --file, or in $EDITOR. Tags from --tags are appended as #hashtags.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagsFlag, _ := cmd.Flags().GetString("tags")
		fileFlag, _ := cmd.Flags().GetString("file")
		visibilityFlag, _ := cmd.Flags().GetString("visibility")

		visibility, err := models.ParseVisibility(visibilityFlag)
		if err != nil {
			return err
		}

		var content string
		switch {
		case len(args) == 1:
			content = args[0]
		case fileFlag != "":
			data, err := os.ReadFile(fileFlag) //nolint:gosec // User-specified file path is expected CLI behavior
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			content = string(data)
		default:
			content, err = openEditor("")
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
		}

		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("memo content cannot be empty")
		}
		content = appendTags(content, tagsFlag)

		memo, err := client.CreateMemo(cmd.Context(), content, visibility)
		if err != nil {
			return fmt.Errorf("failed to create memo: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Created memo %s", memo.Name)))
		return nil
	},
}

// appendTags adds a hashtag line for tags not already present in content,
// since Memos derives tags from the text.
func appendTags(content, tagsFlag string) string {
	existing := map[string]bool{}
	for _, t := range models.ExtractTags(content) {
		existing[t] = true
	}

	var missing []string
	for _, raw := range strings.Split(tagsFlag, ",") {
		tag := models.NewTag(raw).Name
		if tag == "" || existing[tag] {
			continue
		}
		existing[tag] = true
		missing = append(missing, "#"+tag)
	}
	if len(missing) == 0 {
		return content
	}
	return strings.TrimRight(content, "\n") + "\n\n" + strings.Join(missing, " ")
}

func openEditor(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "memos-*.md")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name()) // Best-effort cleanup
	}()

	if initial != "" {
		if _, err := tmpFile.WriteString(initial); err != nil {
			_ = tmpFile.Close()
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func init() {
	addCmd.Flags().String("tags", "", "comma-separated tags")
	addCmd.Flags().String("file", "", "read content from file")
	addCmd.Flags().String("visibility", string(models.VisibilityPrivate), "private, protected, or public")
	rootCmd.AddCommand(addCmd)
}
