// ABOUTME: Machine-readable output for CLI commands.
// ABOUTME: Renders memos as JSON or YAML when --format asks for it.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harper/memos-mcp/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type memoRecord struct {
	Name       string    `json:"name" yaml:"name"`
	Content    string    `json:"content" yaml:"content"`
	Visibility string    `json:"visibility" yaml:"visibility"`
	Status     string    `json:"status" yaml:"status"`
	Pinned     bool      `json:"pinned" yaml:"pinned"`
	Creator    string    `json:"creator,omitempty" yaml:"creator,omitempty"`
	Tags       []string  `json:"tags" yaml:"tags"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

func newMemoRecord(m *models.Memo) memoRecord {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return memoRecord{
		Name:       m.Name,
		Content:    m.Content,
		Visibility: string(m.Visibility),
		Status:     string(m.Status),
		Pinned:     m.Pinned,
		Creator:    m.Creator,
		Tags:       tags,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (use text, json, or yaml)", format)
}

// writeStructured encodes v as JSON or YAML. It reports false for text so
// the caller renders its own view.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}
