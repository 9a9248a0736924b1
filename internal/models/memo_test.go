// ABOUTME: Tests for Memo decoding and name handling.
// ABOUTME: Covers current and legacy Memos API payload shapes.

package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestUnmarshalCurrentAPI(t *testing.T) {
	payload := `{
		"name": "memos/Dq3kC",
		"creator": "users/1",
		"createTime": "2026-01-31T07:04:05Z",
		"updateTime": "2026-02-01T08:00:00Z",
		"content": "Buy milk #groceries",
		"visibility": "PRIVATE",
		"state": "NORMAL",
		"pinned": true,
		"tags": ["groceries", "home"]
	}`

	var m Memo
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m.Name != "memos/Dq3kC" {
		t.Errorf("expected name memos/Dq3kC, got %q", m.Name)
	}
	if got := NormalizeName(m.Name); got != "Dq3kC" {
		t.Errorf("expected normalized name Dq3kC, got %q", got)
	}
	if m.Creator != "users/1" {
		t.Errorf("expected creator users/1, got %q", m.Creator)
	}
	if !m.CreatedAt.Equal(time.Date(2026, 1, 31, 7, 4, 5, 0, time.UTC)) {
		t.Errorf("unexpected CreatedAt %v", m.CreatedAt)
	}
	if m.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
	if m.Visibility != VisibilityPrivate || m.Status != StatusNormal || !m.Pinned {
		t.Errorf("unexpected visibility/status/pinned: %v %v %v", m.Visibility, m.Status, m.Pinned)
	}
	if !reflect.DeepEqual(m.Tags, []string{"groceries", "home"}) {
		t.Errorf("unexpected tags %v", m.Tags)
	}
}

func TestUnmarshalLegacyAPI(t *testing.T) {
	payload := `{
		"id": 42,
		"content": "First memo #ideas",
		"createdTs": 100,
		"updatedTs": "101",
		"rowStatus": "ARCHIVED",
		"visibility": "public",
		"creator": {"nickname": "Harper"},
		"tags": [{"name": "ideas"}]
	}`

	var m Memo
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m.ID != 42 || m.Name != "42" {
		t.Errorf("expected id 42 and name fallback, got %d %q", m.ID, m.Name)
	}
	if !m.CreatedAt.Equal(time.Unix(100, 0)) || !m.UpdatedAt.Equal(time.Unix(101, 0)) {
		t.Errorf("unexpected timestamps %v %v", m.CreatedAt, m.UpdatedAt)
	}
	if m.Status != StatusArchived {
		t.Errorf("expected ARCHIVED, got %q", m.Status)
	}
	if m.Visibility != VisibilityPublic {
		t.Errorf("expected PUBLIC, got %q", m.Visibility)
	}
	if m.Creator != "Harper" {
		t.Errorf("expected creator Harper, got %q", m.Creator)
	}
	if !reflect.DeepEqual(m.Tags, []string{"ideas"}) {
		t.Errorf("unexpected tags %v", m.Tags)
	}
}

func TestUnmarshalDerivesTagsFromContent(t *testing.T) {
	var m Memo
	if err := json.Unmarshal([]byte(`{"name":"memos/x","content":"#one and #two"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(m.Tags, []string{"one", "two"}) {
		t.Errorf("expected tags derived from content, got %v", m.Tags)
	}
}

func TestUnmarshalStringIDAndUID(t *testing.T) {
	var m Memo
	if err := json.Unmarshal([]byte(`{"id":"abc"}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.ID != 0 || m.Name != "abc" {
		t.Errorf("expected opaque id as name, got %d %q", m.ID, m.Name)
	}

	var u Memo
	if err := json.Unmarshal([]byte(`{"uid":"xyz"}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Name != "memos/xyz" {
		t.Errorf("expected uid to become memos/xyz, got %q", u.Name)
	}
}

func TestIsEmpty(t *testing.T) {
	var m Memo
	if err := json.Unmarshal([]byte(`{}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.IsEmpty() {
		t.Error("expected empty memo")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"memos/abc":   "abc",
		"abc":         "abc",
		" memos//42 ": "42",
		"123":         "123",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseVisibility(t *testing.T) {
	for _, in := range []string{"private", "PROTECTED", " Public "} {
		if _, err := ParseVisibility(in); err != nil {
			t.Errorf("ParseVisibility(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseVisibility("bogus"); err == nil {
		t.Error("expected error for bogus visibility")
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("archived"); err != nil || s != StatusArchived {
		t.Errorf("ParseStatus(archived) = %q, %v", s, err)
	}
	if _, err := ParseStatus("deleted"); err == nil {
		t.Error("expected error for unknown status")
	}
}
