// ABOUTME: Visibility and status enums for memos.
// ABOUTME: Parsing is case-insensitive; the wire form is upper case.

package models

import (
	"fmt"
	"strings"
)

type Visibility string

const (
	VisibilityPrivate   Visibility = "PRIVATE"
	VisibilityProtected Visibility = "PROTECTED"
	VisibilityPublic    Visibility = "PUBLIC"
)

// Visibilities lists the accepted values in schema order.
var Visibilities = []Visibility{VisibilityPrivate, VisibilityProtected, VisibilityPublic}

func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Visibilities {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("visibility must be one of PRIVATE, PROTECTED, PUBLIC, got %q", s)
}

type Status string

const (
	StatusNormal   Status = "NORMAL"
	StatusArchived Status = "ARCHIVED"
)

var Statuses = []Status{StatusNormal, StatusArchived}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("row_status must be one of NORMAL, ARCHIVED, got %q", s)
}
