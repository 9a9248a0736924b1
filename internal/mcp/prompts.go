// ABOUTME: MCP prompts for summarizing and organizing memos.
// ABOUTME: Each prompt fetches memos through the client and fills a fixed template.

package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultSummaryCount = 5
	organizationLimit   = 50
	// excerptRunes bounds how much of each memo is quoted into a prompt.
	excerptRunes = 500
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "memo_summary",
		Description: "Generate a prompt for summarizing recent memos",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "memo_count",
				Description: "Number of recent memos to summarize (default 5, at most 1000)",
				Required:    false,
			},
		},
	}, s.promptHandler("memo_summary", s.summaryPrompt))

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "memo_organization",
		Description: "Generate a prompt for helping organize memos",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "tag",
				Description: "Specific tag to focus on (optional)",
				Required:    false,
			},
		},
	}, s.promptHandler("memo_organization", s.organizationPrompt))
}

// promptHandler turns a failed fetch into a prompt message that carries the
// structured error, keeping the session alive.
func (s *Server) promptHandler(name string, fill func(ctx context.Context, arguments map[string]string) (string, string, error)) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		ctx, done := s.begin(ctx, "prompt", name)

		var arguments map[string]string
		if req != nil && req.Params != nil {
			arguments = req.Params.Arguments
		}
		description, text, err := fill(ctx, arguments)
		done(err)
		if err != nil {
			description = "error: " + apperr.As(err).Message
			text = encode(newErrorPayload(err))
		}

		return &mcp.GetPromptResult{
			Description: description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: text},
				},
			},
		}, nil
	}
}

func (s *Server) summaryPrompt(ctx context.Context, arguments map[string]string) (string, string, error) {
	count := defaultSummaryCount
	if raw := strings.TrimSpace(arguments["memo_count"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > memos.MaxPageSize {
			return "", "", apperr.Validation("argument %q must be an integer between 1 and %d, got %q", "memo_count", memos.MaxPageSize, raw)
		}
		count = n
	}

	page, err := s.client.ListMemos(ctx, memos.ListOptions{PageSize: count})
	if err != nil {
		return "", "", err
	}
	recent := page.Memos
	if len(recent) > count {
		recent = recent[:count]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please summarize the most recent %d memos from my Memos instance.\n\n", count)
	b.WriteString("Focus on:\n")
	b.WriteString("1. Key themes and topics\n")
	b.WriteString("2. Action items or tasks mentioned\n")
	b.WriteString("3. Important insights or decisions\n")
	b.WriteString("4. Any patterns or trends\n\n")
	writeMemos(&b, recent)

	return fmt.Sprintf("Summary of the %d most recent memos", count), b.String(), nil
}

func (s *Server) organizationPrompt(ctx context.Context, arguments map[string]string) (string, string, error) {
	tag := models.NewTag(arguments["tag"]).Name

	page, err := s.client.ListMemos(ctx, memos.ListOptions{PageSize: organizationLimit, Tag: tag})
	if err != nil {
		return "", "", err
	}
	tags, err := s.client.ListTags(ctx)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	var description string
	if tag != "" {
		description = fmt.Sprintf("Organize memos tagged #%s", tag)
		fmt.Fprintf(&b, "Help me organize and analyze my memos tagged with '%s'.\n\n", tag)
		b.WriteString("Please:\n")
		b.WriteString("1. Identify common themes and patterns\n")
		b.WriteString("2. Suggest better organization or additional tags\n")
		b.WriteString("3. Highlight any important action items or follow-ups\n\n")
	} else {
		description = "Organize memos"
		b.WriteString("Help me organize my memos.\n\n")
		b.WriteString("Please:\n")
		b.WriteString("1. Analyze the current organization and tags used\n")
		b.WriteString("2. Suggest improvements to tagging and structure\n")
		b.WriteString("3. Identify any memos that need better organization\n\n")
	}

	if len(tags) == 0 {
		b.WriteString("Tags in use: none\n\n")
	} else {
		fmt.Fprintf(&b, "Tags in use: #%s\n\n", strings.Join(tags, ", #"))
	}
	writeMemos(&b, page.Memos)

	return description, b.String(), nil
}

func writeMemos(b *strings.Builder, list []*models.Memo) {
	if len(list) == 0 {
		b.WriteString("There are no memos to work with yet.\n")
		return
	}
	fmt.Fprintf(b, "Memos (%d):\n", len(list))
	for _, m := range list {
		fmt.Fprintf(b, "\n--- %s", m.Name)
		if ts := formatTime(m.CreatedAt); ts != "" {
			fmt.Fprintf(b, " (%s)", ts)
		}
		if len(m.Tags) > 0 {
			fmt.Fprintf(b, " #%s", strings.Join(m.Tags, " #"))
		}
		b.WriteString("\n")
		b.WriteString(excerpt(m.Content))
		b.WriteString("\n")
	}
}

func excerpt(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= excerptRunes {
		return string(runes)
	}
	return string(runes[:excerptRunes]) + "..."
}
