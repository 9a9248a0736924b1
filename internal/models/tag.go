// ABOUTME: Tag model for categorizing memos.
// ABOUTME: Normalizes tag names and extracts #hashtags from memo content.

package models

import (
	"regexp"
	"strings"
)

type Tag struct {
	Name string
}

func NewTag(name string) *Tag {
	return &Tag{
		Name: strings.TrimPrefix(strings.TrimSpace(name), "#"),
	}
}

// hashtag matches "#tag" and nested "#tag/sub" at a word boundary, the way
// Memos derives tags from content. Markdown headings ("# Title") do not
// match because a space follows the hash.
var hashtag = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_\-/]+)`)

// ExtractTags returns the unique hashtags in content, in order of first use.
func ExtractTags(content string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range hashtag.FindAllStringSubmatch(content, -1) {
		name := strings.Trim(m[1], "/")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, name)
	}
	return tags
}
