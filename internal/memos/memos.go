// ABOUTME: Memo endpoints of the Memos API: create, list, get, update, delete, search.
// ABOUTME: Argument problems are rejected locally before any request is sent.

package memos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

type ListOptions struct {
	Page       int
	PageSize   int
	PageToken  string
	Visibility models.Visibility
	Tag        string
	RowStatus  models.Status
}

type SearchOptions struct {
	Query     string
	PageSize  int
	PageToken string
}

type MemoPage struct {
	Memos         []*models.Memo
	NextPageToken string
}

// MemoPatch holds the fields to change. Nil fields are left untouched.
type MemoPatch struct {
	Content    *string
	Visibility *models.Visibility
	RowStatus  *models.Status
	Pinned     *bool
}

func (p MemoPatch) IsEmpty() bool {
	return p.Content == nil && p.Visibility == nil && p.RowStatus == nil && p.Pinned == nil
}

// body and updateMask are built together so the mask always names exactly
// the fields being sent.
func (p MemoPatch) body() (map[string]any, []string) {
	body := make(map[string]any)
	var mask []string
	if p.Content != nil {
		body["content"] = *p.Content
		mask = append(mask, "content")
	}
	if p.Visibility != nil {
		body["visibility"] = string(*p.Visibility)
		mask = append(mask, "visibility")
	}
	if p.RowStatus != nil {
		body["rowStatus"] = string(*p.RowStatus)
		mask = append(mask, "row_status")
	}
	if p.Pinned != nil {
		body["pinned"] = *p.Pinned
		mask = append(mask, "pinned")
	}
	return body, mask
}

func (c *Client) CreateMemo(ctx context.Context, content string, visibility models.Visibility) (*models.Memo, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("content cannot be empty")
	}
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	var memo *models.Memo
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/memos",
		endpoint: "/memos",
		body: map[string]string{
			"content":    content,
			"visibility": string(visibility),
		},
	}, decodeMemoInto(&memo))
	if err != nil {
		return nil, err
	}
	if memo.IsEmpty() {
		return nil, &apperr.Error{Kind: apperr.KindUpstream, Message: "create succeeded but no memo was returned"}
	}
	return memo, nil
}

func (c *Client) ListMemos(ctx context.Context, opts ListOptions) (*MemoPage, error) {
	q := url.Values{}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(clampPageSize(opts.PageSize)))
	if opts.PageToken != "" {
		q.Set("pageToken", opts.PageToken)
	}
	if opts.Visibility != "" {
		q.Set("visibility", string(opts.Visibility))
	}
	if opts.Tag != "" {
		q.Set("tag", models.NewTag(opts.Tag).Name)
	}
	if opts.RowStatus != "" {
		q.Set("rowStatus", string(opts.RowStatus))
	}

	var result *MemoPage
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/memos",
		endpoint: "/memos",
		query:    q,
	}, decodePageInto(&result))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetMemo(ctx context.Context, name string) (*models.Memo, error) {
	id, err := memoSegment(name)
	if err != nil {
		return nil, err
	}

	var memo *models.Memo
	err = c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/memos/" + id,
		endpoint: "/memos/{id}",
	}, decodeMemoInto(&memo))
	if err != nil {
		return nil, notFoundMessage(err, name)
	}
	if memo.IsEmpty() {
		return nil, apperr.NotFound("memo %q not found", name)
	}
	return memo, nil
}

// UpdateMemo sends a PATCH with only the changed fields. An empty patch is
// rejected so a PATCH can never blank a memo by accident.
func (c *Client) UpdateMemo(ctx context.Context, name string, patch MemoPatch) (*models.Memo, error) {
	id, err := memoSegment(name)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperr.Validation("no fields to update for memo %q", name)
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, apperr.Validation("content cannot be empty")
	}

	fields, mask := patch.body()
	var memo *models.Memo
	err = c.do(ctx, request{
		method:   http.MethodPatch,
		path:     "/memos/" + id,
		endpoint: "/memos/{id}",
		query:    url.Values{"updateMask": {strings.Join(mask, ",")}},
		body:     fields,
	}, decodeMemoInto(&memo))
	if err != nil {
		return nil, notFoundMessage(err, name)
	}
	if memo.IsEmpty() {
		// Older servers answer an empty object; report what was sent.
		memo = &models.Memo{Name: name}
		if patch.Content != nil {
			memo.Content = *patch.Content
		}
	}
	return memo, nil
}

func (c *Client) DeleteMemo(ctx context.Context, name string) error {
	id, err := memoSegment(name)
	if err != nil {
		return err
	}
	err = c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/memos/" + id,
		endpoint: "/memos/{id}",
	}, nil)
	if err != nil {
		return notFoundMessage(err, name)
	}
	return nil
}

// SearchMemos lists memos whose content contains the query, using the CEL
// filter the Memos list endpoint understands.
func (c *Client) SearchMemos(ctx context.Context, opts SearchOptions) (*MemoPage, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, apperr.Validation("query cannot be empty")
	}

	q := url.Values{}
	q.Set("filter", ContentFilter(query))
	q.Set("pageSize", strconv.Itoa(clampPageSize(opts.PageSize)))
	if opts.PageToken != "" {
		q.Set("pageToken", opts.PageToken)
	}

	var result *MemoPage
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/memos",
		endpoint: "/memos?filter",
		query:    q,
	}, decodePageInto(&result))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ContentFilter renders a CEL content.contains expression with the query
// escaped as a string literal.
func ContentFilter(query string) string {
	escaped := strings.ReplaceAll(query, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `content.contains("` + escaped + `")`
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

func memoSegment(name string) (string, error) {
	id := models.NormalizeName(name)
	if id == "" {
		return "", apperr.Validation("memo name is required")
	}
	return url.PathEscape(id), nil
}

// notFoundMessage rewrites a bare 404 so the caller sees which memo was missing.
func notFoundMessage(err error, name string) error {
	e := apperr.As(err)
	if e.Kind != apperr.KindNotFound {
		return err
	}
	return &apperr.Error{
		Kind:    apperr.KindNotFound,
		Status:  e.Status,
		Message: "memo " + strconv.Quote(name) + " not found: " + e.Message,
		Err:     err,
	}
}

// decodeMemo accepts a bare memo or one wrapped in "memo" or "data".
func decodeMemo(body []byte) (*models.Memo, error) {
	memo := &models.Memo{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return memo, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, invalidBody(err)
	}
	raw := json.RawMessage(body)
	for _, key := range []string{"memo", "data"} {
		if inner, ok := envelope[key]; ok && isObject(inner) {
			raw = inner
			break
		}
	}
	if err := json.Unmarshal(raw, memo); err != nil {
		return nil, invalidBody(err)
	}
	return memo, nil
}

func decodeMemoInto(out **models.Memo) func([]byte) error {
	return func(body []byte) (err error) {
		*out, err = decodeMemo(body)
		return err
	}
}

func decodePageInto(out **MemoPage) func([]byte) error {
	return func(body []byte) (err error) {
		*out, err = decodePage(body)
		return err
	}
}

// decodePage accepts {"memos": [...]} or the legacy {"data": [...]}.
func decodePage(body []byte) (*MemoPage, error) {
	var payload struct {
		Memos         []*models.Memo `json:"memos"`
		Data          []*models.Memo `json:"data"`
		NextPageToken string         `json:"nextPageToken"`
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, invalidBody(err)
		}
	}
	page := &MemoPage{Memos: payload.Memos, NextPageToken: payload.NextPageToken}
	if page.Memos == nil {
		page.Memos = payload.Data
	}
	if page.Memos == nil {
		page.Memos = []*models.Memo{}
	}
	return page, nil
}

func isObject(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "{")
}

func invalidBody(err error) error {
	return apperr.Wrap(apperr.KindUpstream, err, "invalid JSON from Memos: %v", err)
}
