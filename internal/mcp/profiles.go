// ABOUTME: Tool profiles so a client can load only the tools it needs.
// ABOUTME: Resolves MEMOS_TOOLS / --tools into an allowlist of tool names.

package mcp

import (
	"sort"
	"strings"

	"github.com/harper/memos-mcp/internal/apperr"
)

//	memos-mcp                      → all 7 tools (default)
//	memos-mcp --tools=read         → list_memos, get_memo, search_memos, get_tags
//	memos-mcp --tools=write        → create_memo, update_memo, delete_memo
//	memos-mcp --tools=read,create_memo

var ProfileRead = map[string]bool{
	"list_memos":   true,
	"get_memo":     true,
	"search_memos": true,
	"get_tags":     true,
}

var ProfileWrite = map[string]bool{
	"create_memo": true,
	"update_memo": true,
	"delete_memo": true,
}

var Profiles = map[string]map[string]bool{
	"read":  ProfileRead,
	"write": ProfileWrite,
}

// ResolveTools takes a comma-separated list of profile and tool names and
// returns the tools to register. nil means every tool. Unknown names are a
// configuration error so a typo cannot silently hide a tool.
func ResolveTools(input string) (map[string]bool, error) {
	input = strings.TrimSpace(input)
	if input == "" || input == "all" {
		return nil, nil
	}

	known := make(map[string]bool, len(operations))
	for _, op := range operations {
		known[op.Name] = true
	}

	result := make(map[string]bool)
	all := false
	var unknown []string
	for _, token := range strings.Split(input, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if token == "all" {
			all = true
			continue
		}
		if profile, ok := Profiles[token]; ok {
			for tool := range profile {
				result[tool] = true
			}
			continue
		}
		if !known[token] {
			unknown = append(unknown, token)
			continue
		}
		result[token] = true
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, apperr.Configuration("unknown tool or profile in MEMOS_TOOLS: %s", strings.Join(unknown, ", "))
	}
	if all || len(result) == 0 {
		return nil, nil
	}
	return result, nil
}
