// ABOUTME: Tests for terminal UI formatting functions.
// ABOUTME: Validates memo display and markdown rendering.

package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/harper/memos-mcp/internal/models"
)

func TestFormatMemoListItem(t *testing.T) {
	memo := &models.Memo{
		Name:      "memos/abc123",
		Content:   "# Grocery run\n\n- milk\n- eggs",
		Tags:      []string{"errands", "home"},
		Status:    models.StatusArchived,
		Pinned:    true,
		UpdatedAt: time.Now(),
	}

	output := FormatMemoListItem(memo)

	if !strings.Contains(output, "memos/abc123") {
		t.Error("expected output to contain memo name")
	}
	if !strings.Contains(output, "Grocery run") {
		t.Error("expected output to contain title")
	}
	if !strings.Contains(output, "errands") {
		t.Error("expected output to contain tag")
	}
	if !strings.Contains(output, "archived") {
		t.Error("expected output to mark archived memo")
	}
	if !strings.Contains(output, "pinned") {
		t.Error("expected output to mark pinned memo")
	}
}

func TestFormatMemoListItemWithoutTimestamps(t *testing.T) {
	output := FormatMemoListItem(&models.Memo{Name: "7", Content: "legacy"})
	if strings.Contains(output, "Updated:") {
		t.Error("expected no Updated line for zero timestamp")
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"# Heading\nbody":         "Heading",
		"\n\n  plain first line ": "plain first line",
		"":                        "(empty)",
		strings.Repeat("a", 100):  strings.Repeat("a", 59) + "…",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMemoContent(t *testing.T) {
	content := "# Hello\n\nThis is **bold** text."

	output, err := FormatMemoContent(content)
	if err != nil {
		t.Fatalf("failed to format content: %v", err)
	}

	if output == "" {
		t.Error("expected non-empty output")
	}
}

func TestFormatMemoHeader(t *testing.T) {
	memo := &models.Memo{
		Name:       "memos/xyz",
		Visibility: models.VisibilityPublic,
		Status:     models.StatusNormal,
		Creator:    "users/1",
		CreatedAt:  time.Now(),
		Tags:       []string{"work"},
	}

	output := FormatMemoHeader(memo)

	for _, want := range []string{"memos/xyz", "PUBLIC", "users/1", "Created:", "work"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected header to contain %q", want)
		}
	}
	if strings.Contains(output, "Status:") {
		t.Error("expected no status line for a normal memo")
	}
}

func TestFormatTagList(t *testing.T) {
	output := FormatTagList([]string{"work", "personal"})

	if !strings.Contains(output, "#work") {
		t.Error("expected output to contain '#work'")
	}
	if !strings.Contains(output, "2 tags") {
		t.Error("expected output to contain tag count")
	}
}

func TestFormatNextPage(t *testing.T) {
	if FormatNextPage("") != "" {
		t.Error("expected empty hint without token")
	}
	if !strings.Contains(FormatNextPage("tok"), "--page-token tok") {
		t.Error("expected hint to mention token")
	}
}

func TestSuccessAndError(t *testing.T) {
	if !strings.Contains(Success("done"), "done") {
		t.Error("expected success message")
	}
	if !strings.Contains(Error("failed"), "failed") {
		t.Error("expected error message")
	}
}
