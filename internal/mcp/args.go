// ABOUTME: Declared argument schemas for tools and their validation.
// ABOUTME: Arguments are checked and defaulted before any upstream call is made.

package mcp

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/harper/memos-mcp/internal/apperr"
)

type argType string

const (
	typeString  argType = "string"
	typeInteger argType = "integer"
	typeBoolean argType = "boolean"
	// typeIdentifier accepts a string or an integer and yields a string.
	typeIdentifier argType = "identifier"
)

type argSpec struct {
	Name        string
	Type        argType
	Description string
	Required    bool
	Default     any
	// Enum values are matched case-insensitively and stored upper case.
	Enum []string
	// Minimum applies to integers when non-zero.
	Minimum int
}

func (a argSpec) schema() map[string]any {
	prop := map[string]any{"description": a.Description}
	switch a.Type {
	case typeIdentifier:
		prop["type"] = []string{"string", "integer"}
	default:
		prop["type"] = string(a.Type)
	}
	if a.Default != nil {
		prop["default"] = a.Default
	}
	if len(a.Enum) > 0 {
		prop["enum"] = a.Enum
	}
	if a.Minimum != 0 {
		prop["minimum"] = a.Minimum
	}
	return prop
}

// inputSchema renders the JSON schema advertised in tools/list.
func inputSchema(specs []argSpec) map[string]any {
	props := make(map[string]any, len(specs))
	required := []string{}
	for _, spec := range specs {
		props[spec.Name] = spec.schema()
		if spec.Required {
			required = append(required, spec.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// args holds validated arguments with defaults applied.
type args map[string]any

func (a args) has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a args) str(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a args) integer(name string) int {
	n, _ := a[name].(int)
	return n
}

func (a args) boolean(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// parseArgs decodes raw tool arguments and validates them against specs.
// Unknown arguments are ignored. requireOne names arguments of which at
// least one must be present.
func parseArgs(raw json.RawMessage, specs []argSpec, requireOne []string) (args, error) {
	in := map[string]any{}
	if trimmed := strings.TrimSpace(string(raw)); trimmed != "" && trimmed != "null" {
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&in); err != nil {
			return nil, apperr.Validation("arguments must be a JSON object: %v", err)
		}
	}

	out := make(args, len(specs))
	for _, spec := range specs {
		v, ok := in[spec.Name]
		if !ok || v == nil {
			if spec.Required {
				return nil, apperr.Validation("argument %q is required", spec.Name)
			}
			if spec.Default != nil {
				out[spec.Name] = spec.Default
			}
			continue
		}
		coerced, err := coerce(spec, v)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = coerced
	}

	if len(requireOne) > 0 {
		found := false
		for _, name := range requireOne {
			if out.has(name) {
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.Validation("argument %q is required", requireOne[0])
		}
	}
	return out, nil
}

func coerce(spec argSpec, v any) (any, error) {
	switch spec.Type {
	case typeString:
		s, ok := v.(string)
		if !ok {
			return nil, typeError(spec, v)
		}
		if len(spec.Enum) == 0 {
			return s, nil
		}
		upper := strings.ToUpper(strings.TrimSpace(s))
		for _, allowed := range spec.Enum {
			if upper == allowed {
				return upper, nil
			}
		}
		return nil, apperr.Validation("argument %q must be one of %s, got %q",
			spec.Name, strings.Join(spec.Enum, ", "), s)

	case typeInteger:
		n, err := integerValue(v)
		if errors.Is(err, errOutOfRange) {
			return nil, apperr.Validation("argument %q is out of range, got %v", spec.Name, v)
		}
		if err != nil {
			return nil, typeError(spec, v)
		}
		if spec.Minimum != 0 && n < spec.Minimum {
			return nil, apperr.Validation("argument %q must be at least %d, got %d", spec.Name, spec.Minimum, n)
		}
		return n, nil

	case typeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, typeError(spec, v)
		}
		return b, nil

	case typeIdentifier:
		if s, ok := v.(string); ok {
			if strings.TrimSpace(s) == "" {
				return nil, apperr.Validation("argument %q cannot be empty", spec.Name)
			}
			return strings.TrimSpace(s), nil
		}
		if n, err := integerValue(v); err == nil {
			return strconv.Itoa(n), nil
		}
		return nil, typeError(spec, v)
	}
	return nil, apperr.Validation("argument %q has unsupported type %s", spec.Name, spec.Type)
}

var (
	errNotInteger = errors.New("not an integer")
	errOutOfRange = errors.New("out of range")
)

// integerValue accepts JSON numbers without a fractional part and numeric
// strings, since some clients stringify every argument. Whole numbers that
// do not fit in an int report errOutOfRange.
func integerValue(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			if i < math.MinInt || i > math.MaxInt {
				return 0, errOutOfRange
			}
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, errNotInteger
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if errors.Is(err, strconv.ErrRange) {
			return 0, errOutOfRange
		}
		if err != nil {
			return 0, errNotInteger
		}
		return i, nil
	}
	return 0, errNotInteger
}

func floatToInt(f float64) (int, error) {
	if math.IsInf(f, 0) {
		return 0, errOutOfRange
	}
	if math.IsNaN(f) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	if f < math.MinInt || f >= -float64(math.MinInt) {
		return 0, errOutOfRange
	}
	return int(f), nil
}

func typeError(spec argSpec, v any) error {
	want := string(spec.Type)
	if spec.Type == typeIdentifier {
		want = "string or integer"
	}
	return apperr.Validation("argument %q must be %s, got %s", spec.Name, want, jsonKind(v))
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "null"
}
