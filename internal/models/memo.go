// ABOUTME: Memo model as returned by the Memos REST API.
// ABOUTME: Decodes both current (name/createTime) and legacy (id/createdTs) payload shapes.

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// NamePrefix is the collection prefix of memo resource names ("memos/abc").
const NamePrefix = "memos/"

type Memo struct {
	// Name is the resource name, e.g. "memos/Dq3kC". Legacy servers only
	// send a numeric ID; Name then falls back to that number.
	Name       string
	ID         int64
	Content    string
	Visibility Visibility
	Status     Status
	Creator    string
	Pinned     bool
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeName strips the "memos/" collection prefix and surrounding
// whitespace so both "memos/abc" and "abc" address the same memo.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, NamePrefix) {
		name = strings.TrimLeft(name[len(NamePrefix):], "/")
	}
	return name
}

type wireMemo struct {
	Name       string            `json:"name"`
	UID        string            `json:"uid"`
	ID         json.RawMessage   `json:"id"`
	Content    string            `json:"content"`
	Visibility string            `json:"visibility"`
	State      string            `json:"state"`
	RowStatus  string            `json:"rowStatus"`
	Pinned     bool              `json:"pinned"`
	Creator    json.RawMessage   `json:"creator"`
	Tags       []json.RawMessage `json:"tags"`
	CreateTime string            `json:"createTime"`
	UpdateTime string            `json:"updateTime"`
	CreatedTs  json.RawMessage   `json:"createdTs"`
	UpdatedTs  json.RawMessage   `json:"updatedTs"`
}

func (m *Memo) UnmarshalJSON(data []byte) error {
	var w wireMemo
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = Memo{
		Content:    w.Content,
		Visibility: Visibility(strings.ToUpper(w.Visibility)),
		Pinned:     w.Pinned,
	}

	m.ID, m.Name = decodeID(w.ID)
	switch {
	case w.Name != "":
		m.Name = w.Name
	case m.Name == "" && w.UID != "":
		m.Name = NamePrefix + w.UID
	}

	m.Status = StatusNormal
	if s := firstNonEmpty(w.State, w.RowStatus); s != "" {
		m.Status = Status(strings.ToUpper(s))
	}

	m.Creator = decodeCreator(w.Creator)
	m.Tags = decodeTags(w.Tags)
	if len(m.Tags) == 0 {
		m.Tags = ExtractTags(w.Content)
	}

	m.CreatedAt = decodeTime(w.CreateTime, w.CreatedTs)
	m.UpdatedAt = decodeTime(w.UpdateTime, w.UpdatedTs)
	return nil
}

// IsEmpty reports whether the payload carried no memo at all, as legacy
// servers answer `{"data": {}}` for unknown ids.
func (m *Memo) IsEmpty() bool {
	return m.Name == "" && m.ID == 0 && m.Content == ""
}

// decodeID accepts a number or an opaque string id.
func decodeID(raw json.RawMessage) (int64, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, ""
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, strconv.FormatInt(n, 10)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, s
		}
		return 0, s
	}
	return 0, ""
}

func decodeCreator(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Nickname string `json:"nickname"`
		Username string `json:"username"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return firstNonEmpty(obj.Nickname, obj.Username, obj.Name)
	}
	return ""
}

func decodeTags(raw []json.RawMessage) []string {
	var tags []string
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			if t := NewTag(s); t.Name != "" {
				tags = append(tags, t.Name)
			}
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(r, &obj); err == nil && obj.Name != "" {
			tags = append(tags, NewTag(obj.Name).Name)
		}
	}
	return tags
}

// decodeTime prefers an RFC 3339 timestamp and falls back to a unix-seconds
// number or numeric string.
func decodeTime(rfc string, ts json.RawMessage) time.Time {
	if rfc != "" {
		if t, err := time.Parse(time.RFC3339Nano, rfc); err == nil {
			return t.UTC()
		}
	}
	ts = bytes.TrimSpace(ts)
	if len(ts) == 0 || string(ts) == "null" {
		return time.Time{}
	}
	var n int64
	if err := json.Unmarshal(ts, &n); err == nil {
		return time.Unix(n, 0).UTC()
	}
	var s string
	if err := json.Unmarshal(ts, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(n, 0).UTC()
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
