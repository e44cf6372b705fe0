// Package readiness scores how ready a builder is to join an idea.
// Everything here is a pure function of its inputs.
package readiness

import (
	"fmt"
	"strings"
)

type stackKind int

const (
	stackMissing stackKind = iota
	stackText
	stackList
)

// Stack is a tech stack as submitted: either comma separated text or a list.
// The zero value stands for a missing or unusable value.
type Stack struct {
	kind  stackKind
	text  string
	items []string
}

// Text wraps a comma separated stack, e.g. "Go, Postgres".
func Text(s string) Stack {
	return Stack{kind: stackText, text: s}
}

// List wraps a stack given as separate items.
func List(items ...string) Stack {
	return Stack{kind: stackList, items: items}
}

// StackFrom converts a loosely typed decoded value. Strings become Text,
// slices become List, anything else is treated as missing.
func StackFrom(v any) Stack {
	switch val := v.(type) {
	case Stack:
		return val
	case string:
		return Text(val)
	case []string:
		return List(val...)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			items = append(items, fmt.Sprint(item))
		}
		return List(items...)
	default:
		return Stack{}
	}
}

// IsMissing reports whether the stack carries no usable value.
func (s Stack) IsMissing() bool { return s.kind == stackMissing }

// Normalize returns trimmed, non-empty tokens in their original order.
// Duplicates are kept.
func Normalize(s Stack) []string {
	var raw []string
	switch s.kind {
	case stackText:
		raw = strings.Split(s.text, ",")
	case stackList:
		raw = s.items
	default:
		return []string{}
	}

	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens
}

func lowerSet(s Stack) map[string]struct{} {
	tokens := Normalize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[strings.ToLower(token)] = struct{}{}
	}
	return set
}
