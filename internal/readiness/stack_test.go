package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Stack
		want  []string
	}{
		{name: "comma separated text", input: Text("a, b ,,c"), want: []string{"a", "b", "c"}},
		{name: "list with blanks", input: List("x ", " ", "y"), want: []string{"x", "y"}},
		{name: "missing", input: Stack{}, want: []string{}},
		{name: "empty text", input: Text("  "), want: []string{}},
		{name: "duplicates kept in order", input: List("Go", "go", "Go"), want: []string{"Go", "go", "Go"}},
		{name: "casing preserved", input: Text("React,Node.js"), want: []string{"React", "Node.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestStackFrom(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Go", "Rust"}, Normalize(StackFrom("Go, Rust")))
	assert.Equal(t, []string{"Go", "42"}, Normalize(StackFrom([]any{"Go", 42, nil, " "})))
	assert.Equal(t, []string{"a"}, Normalize(StackFrom([]string{"a", ""})))
	assert.True(t, StackFrom(nil).IsMissing())
	assert.True(t, StackFrom(17).IsMissing())
	assert.True(t, StackFrom(map[string]any{"a": 1}).IsMissing())
	assert.Empty(t, Normalize(StackFrom(true)))
	assert.Equal(t, []string{"true", "1.5"}, Normalize(StackFrom([]any{true, 1.5})))
}
