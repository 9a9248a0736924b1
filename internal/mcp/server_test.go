// ABOUTME: End-to-end tests driving the MCP server through an in-memory client session.
// ABOUTME: A fake Memos upstream records traffic so zero-call guarantees can be asserted.

package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/config"
	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/memos/memostest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, upstream *memostest.Server, opts ...Option) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client := memos.NewClient(config.Settings{
		BaseURL:     upstream.URL,
		AccessToken: memostest.Token,
		APIPrefix:   memostest.Prefix,
		Timeout:     2 * time.Second,
	})
	server := NewServer(client, opts...)

	ct, st := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st)
	require.NoError(t, err)

	session, err := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil).Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, arguments map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: arguments})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func decodeError(t *testing.T, text string) errorBody {
	t.Helper()
	var payload errorPayload
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	return payload.Error
}

func readResource(t *testing.T, session *mcp.ClientSession, uri string) string {
	t.Helper()
	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: uri})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	return res.Contents[0].Text
}

func getPrompt(t *testing.T, session *mcp.ClientSession, name string, arguments map[string]string) *mcp.GetPromptResult {
	t.Helper()
	res, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: name, Arguments: arguments})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	return res
}

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	text, ok := res.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListToolsAdvertisesSchemas(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	session := newTestSession(t, upstream)

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	byName := map[string]*mcp.Tool{}
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		byName[tool.Name] = tool
	}
	assert.ElementsMatch(t, []string{
		"create_memo", "list_memos", "get_memo", "update_memo", "delete_memo", "search_memos", "get_tags",
	}, names)

	schema, err := json.Marshal(byName["create_memo"].InputSchema)
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"required":["content"]`)
	assert.Contains(t, string(schema), `"PROTECTED"`)

	require.NotNil(t, byName["get_tags"].Annotations)
	assert.True(t, byName["get_tags"].Annotations.ReadOnlyHint)
	require.NotNil(t, byName["delete_memo"].Annotations.DestructiveHint)
	assert.True(t, *byName["delete_memo"].Annotations.DestructiveHint)
	assert.Zero(t, upstream.CallCount())
}

func TestToolProfileLimitsTools(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	allow, err := ResolveTools("read")
	require.NoError(t, err)
	session := newTestSession(t, upstream, WithTools(allow))

	res, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_memos", "get_memo", "search_memos", "get_tags"}, names)
}

func TestCreateMemoTool(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	session := newTestSession(t, upstream)

	text, isErr := callTool(t, session, "create_memo", map[string]any{"content": "Buy milk", "visibility": "private"})
	require.False(t, isErr, text)

	var payload createPayload
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "memos/1", payload.Memo.Name)
	assert.Equal(t, "Buy milk", payload.Memo.Content)
	assert.Equal(t, "PRIVATE", payload.Memo.Visibility)

	calls := upstream.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/api/v1/memos", calls[0].Path)
	assert.JSONEq(t, `{"content": "Buy milk", "visibility": "PRIVATE"}`, calls[0].Body)
	assert.NotEmpty(t, calls[0].RequestID)
}

func TestInvalidArgumentsMakeNoUpstreamCalls(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	session := newTestSession(t, upstream)

	tests := []struct {
		tool     string
		args     map[string]any
		argument string
	}{
		{"create_memo", map[string]any{"content": "x", "visibility": "bogus"}, "visibility"},
		{"create_memo", map[string]any{}, "content"},
		{"create_memo", map[string]any{"content": 12}, "content"},
		{"create_memo", map[string]any{"content": "   "}, "content"},
		{"list_memos", map[string]any{"page_size": "lots"}, "page_size"},
		{"list_memos", map[string]any{"page": 0}, "page"},
		{"list_memos", map[string]any{"row_status": "deleted"}, "row_status"},
		{"get_memo", map[string]any{}, "name"},
		{"get_memo", map[string]any{"name": true}, "name"},
		{"update_memo", map[string]any{"name": "memos/1"}, "memos/1"},
		{"update_memo", map[string]any{"name": "memos/1", "pinned": "yes"}, "pinned"},
		{"search_memos", map[string]any{}, "query"},
		{"search_memos", map[string]any{"query": " "}, "query"},
	}
	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.argument, func(t *testing.T) {
			text, isErr := callTool(t, session, tt.tool, tt.args)
			require.True(t, isErr, text)
			body := decodeError(t, text)
			assert.Equal(t, apperr.KindValidation, body.Kind)
			assert.Contains(t, body.Message, tt.argument)
		})
	}
	assert.Zero(t, upstream.CallCount())
}

func TestGetMemoMissingIsNotFound(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	session := newTestSession(t, upstream)

	text, isErr := callTool(t, session, "get_memo", map[string]any{"name": "memos/404"})
	require.True(t, isErr)
	body := decodeError(t, text)
	assert.Equal(t, apperr.KindNotFound, body.Kind)
	assert.Equal(t, 404, body.Status)
	assert.Contains(t, body.Message, "memos/404")
}

func TestUpdateMemoTool(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	name := upstream.Seed("draft")
	session := newTestSession(t, upstream)

	text, isErr := callTool(t, session, "update_memo", map[string]any{
		"name":       name,
		"content":    "final #done",
		"row_status": "archived",
	})
	require.False(t, isErr, text)

	var payload mutationPayload
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, name, payload.MemoName)
	require.NotNil(t, payload.Memo)
	assert.Equal(t, "final #done", payload.Memo.Content)
	assert.Equal(t, "ARCHIVED", payload.Memo.Status)

	last := upstream.LastCall()
	assert.Equal(t, "PATCH", last.Method)
	assert.JSONEq(t, `{"content": "final #done", "rowStatus": "ARCHIVED"}`, last.Body)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	name := upstream.Seed("temporary")
	session := newTestSession(t, upstream)

	text, isErr := callTool(t, session, "delete_memo", map[string]any{"name": name})
	require.False(t, isErr, text)
	assert.JSONEq(t, `{"success": true, "memo_name": "`+name+`"}`, text)

	text, isErr = callTool(t, session, "get_memo", map[string]any{"name": name})
	require.True(t, isErr)
	assert.Equal(t, apperr.KindNotFound, decodeError(t, text).Kind)
}

func TestListAndSearchTools(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	upstream.Seed("buy milk", "errands")
	upstream.Seed("call mom", "family")
	upstream.Seed("buy bread", "errands")
	session := newTestSession(t, upstream)

	text, isErr := callTool(t, session, "list_memos", map[string]any{"page_size": 2})
	require.False(t, isErr, text)
	var list memoListPayload
	require.NoError(t, json.Unmarshal([]byte(text), &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "buy bread", list.Memos[0].Content)

	text, isErr = callTool(t, session, "search_memos", map[string]any{"query": "buy"})
	require.False(t, isErr, text)
	var found memoListPayload
	require.NoError(t, json.Unmarshal([]byte(text), &found))
	assert.Equal(t, 2, found.Count)
	assert.Equal(t, "buy", found.Query)
	assert.Contains(t, upstream.LastCall().Query, "filter=")

	text, isErr = callTool(t, session, "get_tags", nil)
	require.False(t, isErr, text)
	assert.JSONEq(t, `{"tags": ["errands", "family"], "count": 2}`, text)
}

func TestFailureDoesNotPoisonSession(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	name := upstream.Seed("still here")
	session := newTestSession(t, upstream)

	_, isErr := callTool(t, session, "get_memo", map[string]any{"name": "memos/nope"})
	require.True(t, isErr)

	text, isErr := callTool(t, session, "get_memo", map[string]any{"name": name})
	require.False(t, isErr, text)
	assert.Contains(t, text, "still here")
}

func TestMemoResourceMatchesGetMemo(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	upstream.Seed("one")
	upstream.Seed("two")
	session := newTestSession(t, upstream)

	fromTool, isErr := callTool(t, session, "get_memo", map[string]any{"id": 2})
	require.False(t, isErr, fromTool)
	fromResource := readResource(t, session, "memo://2")
	assert.Equal(t, fromTool, fromResource)
	assert.Contains(t, fromResource, `"content": "two"`)
}

func TestMemoResourceAcceptsFullName(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	name := upstream.Seed("named memo")
	session := newTestSession(t, upstream)

	fromTool, isErr := callTool(t, session, "get_memo", map[string]any{"name": name})
	require.False(t, isErr, fromTool)
	fromResource := readResource(t, session, "memo://"+name)
	assert.Equal(t, fromTool, fromResource)
	assert.Contains(t, fromResource, `"content": "named memo"`)

	body := decodeError(t, readResource(t, session, "memo://memos/999"))
	assert.Equal(t, apperr.KindNotFound, body.Kind)
}

func TestSearchResourceAcceptsSlashes(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	upstream.Seed("deploy a/b test")
	upstream.Seed("unrelated")
	session := newTestSession(t, upstream)

	var found memoListPayload
	require.NoError(t, json.Unmarshal([]byte(readResource(t, session, "memos://search/a/b")), &found))
	assert.Equal(t, "a/b", found.Query)
	assert.Equal(t, 1, found.Count)
}

func TestListAndSearchResources(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	upstream.Seed("buy milk")
	upstream.Seed("walk dog")
	session := newTestSession(t, upstream)

	var list memoListPayload
	require.NoError(t, json.Unmarshal([]byte(readResource(t, session, "memos://list")), &list))
	assert.Equal(t, 2, list.Count)
	assert.Contains(t, upstream.LastCall().Query, "pageSize=50")

	var found memoListPayload
	require.NoError(t, json.Unmarshal([]byte(readResource(t, session, "memos://search/buy%20milk")), &found))
	assert.Equal(t, 1, found.Count)
	assert.Equal(t, "buy milk", found.Query)
}

func TestResourceErrorIsStructured(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	session := newTestSession(t, upstream)

	body := decodeError(t, readResource(t, session, "memo://999"))
	assert.Equal(t, apperr.KindNotFound, body.Kind)
}

func TestSummaryPrompt(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	upstream.Seed("first thought")
	upstream.Seed("second thought", "ideas")
	upstream.Seed("third thought")
	session := newTestSession(t, upstream)

	res := getPrompt(t, session, "memo_summary", map[string]string{"memo_count": "2"})
	text := promptText(t, res)
	assert.Contains(t, text, "most recent 2 memos")
	assert.Contains(t, text, "third thought")
	assert.Contains(t, text, "second thought")
	assert.NotContains(t, text, "first thought")
	assert.Contains(t, text, "#ideas")
	assert.Contains(t, upstream.LastCall().Query, "pageSize=2")

	res = getPrompt(t, session, "memo_summary", nil)
	assert.Contains(t, promptText(t, res), "most recent 5 memos")
}

func TestSummaryPromptRejectsBadCount(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	session := newTestSession(t, upstream)

	for _, count := range []string{"many", "0", "5000"} {
		res := getPrompt(t, session, "memo_summary", map[string]string{"memo_count": count})
		body := decodeError(t, promptText(t, res))
		assert.Equal(t, apperr.KindValidation, body.Kind, count)
		assert.True(t, strings.HasPrefix(res.Description, "error:"), count)
	}
	assert.Zero(t, upstream.CallCount())
}

func TestOrganizationPrompt(t *testing.T) {
	upstream := memostest.NewServer()
	defer upstream.Close()
	upstream.Seed("sprint plan", "work")
	upstream.Seed("groceries", "home")
	session := newTestSession(t, upstream)

	text := promptText(t, getPrompt(t, session, "memo_organization", map[string]string{"tag": "#work"}))
	assert.Contains(t, text, "tagged with 'work'")
	assert.Contains(t, text, "sprint plan")
	assert.NotContains(t, text, "groceries")
	assert.Contains(t, text, "Tags in use: #home, #work")

	text = promptText(t, getPrompt(t, session, "memo_organization", nil))
	assert.Contains(t, text, "Help me organize my memos.")
	assert.Contains(t, text, "groceries")
}
