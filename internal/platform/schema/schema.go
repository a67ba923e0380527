// Package schema validates decoded JSON documents against a tagged schema description.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Node describes the expected shape of one value.
type Node interface {
	validate(path string, value any) error
}

// Rule constrains a string value.
type Rule interface {
	check(s string) (reason string, ok bool)
}

type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s %s", e.Path, e.Reason)
}

// Validate checks value (as produced by encoding/json into any) against node.
func Validate(value any, node Node) error {
	return node.validate("", value)
}

// Object requires a JSON object holding every listed field. Strict objects also reject
// fields that are not listed.
type Object struct {
	Fields map[string]Node
	Strict bool
}

func (o Object) validate(path string, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return &ValidationError{Path: path, Reason: "is not an object"}
	}
	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		field, ok := m[name]
		if !ok {
			return &ValidationError{Path: path, Reason: "does not have property " + name}
		}
		if err := o.Fields[name].validate(join(path, name), field); err != nil {
			return err
		}
	}
	if o.Strict {
		for name := range m {
			if _, ok := o.Fields[name]; !ok {
				return &ValidationError{Path: path, Reason: "has unexpected property " + name}
			}
		}
	}
	return nil
}

// List requires a JSON array whose elements all match Elem.
type List struct {
	Elem Node
}

func (l List) validate(path string, value any) error {
	items, ok := value.([]any)
	if !ok {
		return &ValidationError{Path: path, Reason: "is not a list"}
	}
	for i, item := range items {
		if err := l.Elem.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
			return err
		}
	}
	return nil
}

// Number requires a finite JSON number.
type Number struct {
	NonNegative bool
}

func (n Number) validate(path string, value any) error {
	f, ok := value.(float64)
	if !ok {
		return &ValidationError{Path: path, Reason: "is not a number"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &ValidationError{Path: path, Reason: "is not finite"}
	}
	if n.NonNegative && f < 0 {
		return &ValidationError{Path: path, Reason: "is negative"}
	}
	return nil
}

// String requires a JSON string satisfying every rule.
type String struct {
	Rules []Rule
}

func (s String) validate(path string, value any) error {
	str, ok := value.(string)
	if !ok {
		return &ValidationError{Path: path, Reason: "is not a string"}
	}
	for _, rule := range s.Rules {
		if reason, ok := rule.check(str); !ok {
			return &ValidationError{Path: path, Reason: reason}
		}
	}
	return nil
}

// Length requires exactly n characters.
type Length int

func (n Length) check(s string) (string, bool) {
	if len([]rune(s)) != int(n) {
		return fmt.Sprintf("is not %d characters long", int(n)), false
	}
	return "", true
}

// Charset restricts the characters a string may use.
type Charset int

const (
	Hex Charset = iota + 1
	Base64
)

var (
	hexPattern    = regexp.MustCompile(`^[a-f0-9]*$`)
	base64Pattern = regexp.MustCompile(`^[a-zA-Z0-9+/=]*$`)
)

func (c Charset) check(s string) (string, bool) {
	switch c {
	case Hex:
		if !hexPattern.MatchString(s) {
			return "is not a hexadecimal string", false
		}
	case Base64:
		if !base64Pattern.MatchString(s) {
			return "is not a base64 encoded string", false
		}
	default:
		return fmt.Sprintf("has unknown charset %d", int(c)), false
	}
	return "", true
}

// Equals requires the exact value.
type Equals string

func (e Equals) check(s string) (string, bool) {
	if s != string(e) {
		return fmt.Sprintf("is not %q", string(e)), false
	}
	return "", true
}

// OneOf requires one of the listed values.
type OneOf []string

func (o OneOf) check(s string) (string, bool) {
	for _, v := range o {
		if s == v {
			return "", true
		}
	}
	return "is not one of " + strings.Join(o, ", "), false
}

// Timestamp requires an RFC 3339 timestamp.
type Timestamp struct{}

func (Timestamp) check(s string) (string, bool) {
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return "is not an RFC 3339 timestamp", false
	}
	return "", true
}

// Any accepts every string.
type Any struct{}

func (Any) check(string) (string, bool) { return "", true }

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
