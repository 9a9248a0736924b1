// ABOUTME: Terminal UI formatting for memo output in the operator CLI.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/memos-mcp/internal/models"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

const (
	timeLayout = "2006-01-02 15:04"
	titleRunes = 60
)

// Title is the first non-empty line of the memo with markdown heading
// marks stripped, truncated for list display.
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > titleRunes {
			return string(runes[:titleRunes-1]) + "…"
		}
		return line
	}
	return "(empty)"
}

func FormatMemoListItem(memo *models.Memo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s", faint(memo.Name), bold(Title(memo.Content))))
	if memo.Pinned {
		sb.WriteString(" " + yellow("pinned"))
	}
	if memo.Status == models.StatusArchived {
		sb.WriteString(" " + faint("[archived]"))
	}
	sb.WriteString("\n")

	if len(memo.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("         %s %s\n",
			faint("Tags:"),
			cyan(strings.Join(memo.Tags, ", "))))
	}

	if ts := formatTime(memo.UpdatedAt); ts != "" {
		sb.WriteString(fmt.Sprintf("         %s %s\n", faint("Updated:"), faint(ts)))
	}

	return sb.String()
}

func FormatMemoContent(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatMemoHeader(memo *models.Memo) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", bold(memo.Name)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Visibility:"), faint(string(memo.Visibility))))
	if memo.Status != "" && memo.Status != models.StatusNormal {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Status:"), yellow(string(memo.Status))))
	}
	if memo.Creator != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Creator:"), faint(memo.Creator)))
	}
	if ts := formatTime(memo.CreatedAt); ts != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(ts)))
	}
	if ts := formatTime(memo.UpdatedAt); ts != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(ts)))
	}
	if len(memo.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tags:"), cyan(strings.Join(memo.Tags, ", "))))
	}

	sb.WriteString(Separator())
	return sb.String()
}

func FormatTagList(tags []string) string {
	var sb strings.Builder

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("  %s\n", cyan("#"+t)))
	}
	sb.WriteString(faint(fmt.Sprintf("%d tags\n", len(tags))))

	return sb.String()
}

// FormatNextPage tells the operator how to fetch the following page.
func FormatNextPage(token string) string {
	if token == "" {
		return ""
	}
	return faint(fmt.Sprintf("\nMore memos available: --page-token %s\n", token))
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
