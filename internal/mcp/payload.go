// ABOUTME: JSON payload shapes returned to MCP clients.
// ABOUTME: Tools and resources share these so the same memo always renders the same way.

package mcp

import (
	"encoding/json"
	"time"

	"github.com/harper/memos-mcp/internal/apperr"
	"github.com/harper/memos-mcp/internal/memos"
	"github.com/harper/memos-mcp/internal/models"
)

type memoView struct {
	Name       string   `json:"name"`
	ID         int64    `json:"id,omitempty"`
	CreateTime string   `json:"createTime"`
	UpdateTime string   `json:"updateTime"`
	Content    string   `json:"content"`
	Visibility string   `json:"visibility,omitempty"`
	Status     string   `json:"status,omitempty"`
	Creator    string   `json:"creator,omitempty"`
	Pinned     bool     `json:"pinned,omitempty"`
	Tags       []string `json:"tags"`
}

func newMemoView(m *models.Memo) memoView {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return memoView{
		Name:       m.Name,
		ID:         m.ID,
		CreateTime: formatTime(m.CreatedAt),
		UpdateTime: formatTime(m.UpdatedAt),
		Content:    m.Content,
		Visibility: string(m.Visibility),
		Status:     string(m.Status),
		Creator:    m.Creator,
		Pinned:     m.Pinned,
		Tags:       tags,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type memoListPayload struct {
	Memos         []memoView `json:"memos"`
	Count         int        `json:"count"`
	Query         string     `json:"query,omitempty"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

func newMemoList(page *memos.MemoPage, query string) memoListPayload {
	views := make([]memoView, 0, len(page.Memos))
	for _, m := range page.Memos {
		views = append(views, newMemoView(m))
	}
	return memoListPayload{
		Memos:         views,
		Count:         len(views),
		Query:         query,
		NextPageToken: page.NextPageToken,
	}
}

type createPayload struct {
	Success bool     `json:"success"`
	Memo    memoView `json:"memo"`
}

type mutationPayload struct {
	Success  bool      `json:"success"`
	MemoName string    `json:"memo_name"`
	Memo     *memoView `json:"memo,omitempty"`
}

type tagsPayload struct {
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
	Status  int         `json:"status,omitempty"`
}

type errorPayload struct {
	Error errorBody `json:"error"`
}

func newErrorPayload(err error) errorPayload {
	e := apperr.As(err)
	return errorPayload{Error: errorBody{Kind: e.Kind, Message: e.Message, Status: e.Status}}
}

func encode(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data, _ = json.Marshal(newErrorPayload(apperr.Wrap(apperr.KindUpstream, err, "encode response: %v", err)))
	}
	return string(data)
}
