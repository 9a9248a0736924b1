// ABOUTME: MCP tools for memo CRUD, search, and tags.
// ABOUTME: A static operation table maps each tool name to its schema and one client call.

package mcp

import (
	"context"
	"time"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/models"
	"github.com/harper/memos-mcp/internal/telemetry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type operation struct {
	Name        string
	Description string
	Args        []argSpec
	// RequireOne lists arguments of which at least one must be given.
	RequireOne  []string
	ReadOnly    bool
	Destructive bool
	Run         func(ctx context.Context, client MemoService, a args) (any, error)
}

var (
	visibilityEnum = []string{string(models.VisibilityPrivate), string(models.VisibilityProtected), string(models.VisibilityPublic)}
	statusEnum     = []string{string(models.StatusNormal), string(models.StatusArchived)}

	memoNameArgs = []argSpec{
		{Name: "name", Type: typeIdentifier, Description: "The memo name (e.g. memos/xxxxx) or bare id"},
		{Name: "id", Type: typeIdentifier, Description: "Alias for name"},
	}
)

var operations = []operation{
	{
		Name:        "create_memo",
		Description: "Create a new memo in Memos",
		Args: []argSpec{
			{Name: "content", Type: typeString, Required: true, Description: "The content of the memo (markdown, #hashtags become tags)"},
			{Name: "visibility", Type: typeString, Default: string(models.VisibilityPrivate), Enum: visibilityEnum, Description: "Visibility level"},
		},
		Run: createMemo,
	},
	{
		Name:        "list_memos",
		Description: "List memos from Memos with optional filters",
		Args: []argSpec{
			{Name: "page", Type: typeInteger, Default: 1, Minimum: 1, Description: "Page number (legacy servers)"},
			{Name: "page_size", Type: typeInteger, Default: memos.DefaultPageSize, Minimum: 1, Description: "Memos per page"},
			{Name: "page_token", Type: typeString, Description: "Token from a previous nextPageToken"},
			{Name: "visibility", Type: typeString, Enum: visibilityEnum, Description: "Only memos with this visibility"},
			{Name: "tag", Type: typeString, Description: "Only memos with this tag"},
			{Name: "row_status", Type: typeString, Enum: statusEnum, Description: "NORMAL or ARCHIVED memos"},
		},
		ReadOnly: true,
		Run:      listMemos,
	},
	{
		Name:        "get_memo",
		Description: "Get a specific memo by name (e.g. memos/xxxxx)",
		Args:        memoNameArgs,
		RequireOne:  []string{"name", "id"},
		ReadOnly:    true,
		Run:         getMemo,
	},
	{
		Name:        "update_memo",
		Description: "Update an existing memo by name (e.g. memos/xxxxx). At least one field must change.",
		Args: append(append([]argSpec{}, memoNameArgs...),
			argSpec{Name: "content", Type: typeString, Description: "New content"},
			argSpec{Name: "visibility", Type: typeString, Enum: visibilityEnum, Description: "New visibility"},
			argSpec{Name: "row_status", Type: typeString, Enum: statusEnum, Description: "ARCHIVED to archive, NORMAL to restore"},
			argSpec{Name: "pinned", Type: typeBoolean, Description: "Pin or unpin the memo"},
		),
		RequireOne: []string{"name", "id"},
		Run:        updateMemo,
	},
	{
		Name:        "delete_memo",
		Description: "Delete a memo by name (e.g. memos/xxxxx)",
		Args:        memoNameArgs,
		RequireOne:  []string{"name", "id"},
		Destructive: true,
		Run:         deleteMemo,
	},
	{
		Name:        "search_memos",
		Description: "Search memos by content",
		Args: []argSpec{
			{Name: "query", Type: typeString, Required: true, Description: "Text the memo content must contain"},
			{Name: "page_size", Type: typeInteger, Default: memos.DefaultPageSize, Minimum: 1, Description: "Maximum results"},
			{Name: "page_token", Type: typeString, Description: "Token from a previous nextPageToken"},
		},
		ReadOnly: true,
		Run:      searchMemos,
	},
	{
		Name:        "get_tags",
		Description: "List every tag used across memos",
		ReadOnly:    true,
		Run:         getTags,
	},
}

func (s *Server) registerTools() {
	for _, op := range operations {
		if !s.enabled(op.Name) {
			continue
		}
		destructive := op.Destructive
		s.server.AddTool(&mcp.Tool{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: inputSchema(op.Args),
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:    op.ReadOnly,
				DestructiveHint: &destructive,
			},
		}, s.toolHandler(op))
	}
}

// toolHandler wraps an operation so every failure, including bad
// arguments, comes back as an IsError result rather than a protocol fault.
func (s *Server) toolHandler(op operation) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, done := s.begin(ctx, "tool", op.Name)

		result, err := func() (any, error) {
			var raw []byte
			if req != nil && req.Params != nil {
				raw = req.Params.Arguments
			}
			a, err := parseArgs(raw, op.Args, op.RequireOne)
			if err != nil {
				return nil, err
			}
			return op.Run(ctx, s.client, a)
		}()
		done(err)

		if err != nil {
			return errorResult(err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: encode(result)},
			},
		}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: encode(newErrorPayload(err))},
		},
		IsError: true,
	}
}

// begin tags ctx with a request id and returns a func that logs and records
// the outcome of the call.
func (s *Server) begin(ctx context.Context, surface, name string) (context.Context, func(error)) {
	ctx, _ = telemetry.EnsureRequestID(ctx)
	logger := telemetry.LoggerWithRequest(ctx, s.logger).With(
		zap.String("surface", surface),
		zap.String(telemetry.FieldOperation, name),
	)
	start := time.Now()
	return ctx, func(err error) {
		elapsed := time.Since(start)
		outcome := telemetry.OutcomeSuccess
		if err != nil {
			outcome = string(apperr.KindOf(err))
		}
		s.metrics.ObserveOperation(surface, name, outcome, elapsed)

		if err != nil {
			logger.Warn("request failed",
				zap.String("kind", outcome),
				zap.Int64(telemetry.FieldDurationMs, elapsed.Milliseconds()),
				zap.Error(err),
			)
			return
		}
		logger.Info("request completed", zap.Int64(telemetry.FieldDurationMs, elapsed.Milliseconds()))
	}
}

func memoName(a args) string {
	if a.has("name") {
		return a.str("name")
	}
	return a.str("id")
}

func createMemo(ctx context.Context, client MemoService, a args) (any, error) {
	memo, err := client.CreateMemo(ctx, a.str("content"), models.Visibility(a.str("visibility")))
	if err != nil {
		return nil, err
	}
	return createPayload{Success: true, Memo: newMemoView(memo)}, nil
}

func listMemos(ctx context.Context, client MemoService, a args) (any, error) {
	page, err := client.ListMemos(ctx, memos.ListOptions{
		Page:       a.integer("page"),
		PageSize:   a.integer("page_size"),
		PageToken:  a.str("page_token"),
		Visibility: models.Visibility(a.str("visibility")),
		Tag:        a.str("tag"),
		RowStatus:  models.Status(a.str("row_status")),
	})
	if err != nil {
		return nil, err
	}
	return newMemoList(page, ""), nil
}

func getMemo(ctx context.Context, client MemoService, a args) (any, error) {
	memo, err := client.GetMemo(ctx, memoName(a))
	if err != nil {
		return nil, err
	}
	return newMemoView(memo), nil
}

func updateMemo(ctx context.Context, client MemoService, a args) (any, error) {
	var patch memos.MemoPatch
	if a.has("content") {
		content := a.str("content")
		patch.Content = &content
	}
	if a.has("visibility") {
		v := models.Visibility(a.str("visibility"))
		patch.Visibility = &v
	}
	if a.has("row_status") {
		st := models.Status(a.str("row_status"))
		patch.RowStatus = &st
	}
	if a.has("pinned") {
		pinned := a.boolean("pinned")
		patch.Pinned = &pinned
	}

	name := memoName(a)
	memo, err := client.UpdateMemo(ctx, name, patch)
	if err != nil {
		return nil, err
	}
	view := newMemoView(memo)
	if view.Name != "" {
		name = view.Name
	}
	return mutationPayload{Success: true, MemoName: name, Memo: &view}, nil
}

func deleteMemo(ctx context.Context, client MemoService, a args) (any, error) {
	name := memoName(a)
	if err := client.DeleteMemo(ctx, name); err != nil {
		return nil, err
	}
	return mutationPayload{Success: true, MemoName: models.NamePrefix + models.NormalizeName(name)}, nil
}

func searchMemos(ctx context.Context, client MemoService, a args) (any, error) {
	query := a.str("query")
	page, err := client.SearchMemos(ctx, memos.SearchOptions{
		Query:     query,
		PageSize:  a.integer("page_size"),
		PageToken: a.str("page_token"),
	})
	if err != nil {
		return nil, err
	}
	return newMemoList(page, query), nil
}

func getTags(ctx context.Context, client MemoService, _ args) (any, error) {
	tags, err := client.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return tagsPayload{Tags: tags, Count: len(tags)}, nil
}
