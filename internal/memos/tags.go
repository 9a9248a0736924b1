// ABOUTME: Tag listing and current-user endpoints of the Memos API.
// ABOUTME: CurrentUser doubles as the connectivity check.

package memos

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/harper/memos-mcp/internal/models"
)

// ListTags returns the distinct tag names known upstream, sorted.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	var tags []string
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/tags",
		endpoint: "/tags",
	}, func(body []byte) (err error) {
		tags, err = decodeTags(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// decodeTags understands {"tags": [...]}, {"tagAmounts": {...}}, and a
// bare array. Array items may be strings or {"name": ...} objects.
func decodeTags(body []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return []string{}, nil
	}

	var items []json.RawMessage
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, invalidBody(err)
		}
	} else {
		var payload struct {
			Tags       []json.RawMessage `json:"tags"`
			TagAmounts map[string]int    `json:"tagAmounts"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, invalidBody(err)
		}
		items = payload.Tags
		for name := range payload.TagAmounts {
			raw, _ := json.Marshal(name)
			items = append(items, raw)
		}
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, raw := range items {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			var obj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(raw, &obj); err != nil {
				continue
			}
			name = obj.Name
		}
		name = models.NewTag(name).Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	sort.Strings(tags)
	return tags, nil
}

type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DisplayName picks the friendliest identifier the server sent.
func (u *User) DisplayName() string {
	for _, s := range []string{u.Nickname, u.Username, u.Name} {
		if s != "" {
			return s
		}
	}
	return "unknown"
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var payload struct {
		User
		Wrapped *User `json:"user"`
	}
	if err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/user/me",
		endpoint: "/user/me",
	}, decodeJSON(&payload)); err != nil {
		return nil, err
	}
	if payload.Wrapped != nil {
		return payload.Wrapped, nil
	}
	u := payload.User
	return &u, nil
}
