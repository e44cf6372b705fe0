package readiness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		idea    Stack
		builder Stack
		want    float64
	}{
		{name: "half covered", idea: List("Python", "Go"), builder: List("python", "rust"), want: 0.5},
		{name: "empty idea stack", idea: List(), builder: List("go"), want: 0.0},
		{name: "missing idea stack", idea: Stack{}, builder: Text("go"), want: 0.0},
		{name: "disjoint", idea: List("Go"), builder: List("Java"), want: 0.0},
		{name: "missing builder stack", idea: List("Go"), builder: Stack{}, want: 0.0},
		{name: "full cover with duplicates", idea: Text("Go, go, Postgres"), builder: List("postgres", "GO"), want: 1.0},
		{name: "no fuzzy matching", idea: List("Node.js"), builder: List("Node"), want: 0.0},
		{name: "mixed shapes", idea: Text("React, Node, Go"), builder: List("node"), want: 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SkillMatch(tt.idea, tt.builder))
		})
	}
}

func TestScoreAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{name: "idk", answer: "idk", want: 0.0},
		{name: "low effort phrase inside text", answer: "Honestly I am NOT SURE about this one at all, sorry", want: 0.0},
		{name: "na as substring", answer: "Signal handling", want: 0.0},
		{name: "short", answer: "Yes, I can do it", want: 0.2},
		{name: "trimmed before measuring", answer: "   Yes, I can do it      ", want: 0.2},
		{name: "exactly twenty chars is medium", answer: strings.Repeat("x", 20), want: 0.5},
		{name: "medium", answer: "I have used Go for about two years.", want: 0.5},
		{name: "exactly fifty chars is long", answer: strings.Repeat("y", 50), want: 0.9},
		{name: "long", answer: "This is a decent length answer about my experience.", want: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ScoreAnswer(tt.answer))
		})
	}
}

func TestAnswerQuality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.45, AnswerQuality([]string{"idk", "This is a decent length answer about my experience."}))
	assert.Equal(t, 0.0, AnswerQuality(nil))
	assert.Equal(t, 0.0, AnswerQuality([]string{}))
	// 5 x 0.2 / 8 = 0.125 sits exactly on the half and rounds away from zero.
	assert.Equal(t, 0.13, AnswerQuality([]string{
		"Sure thing", "Sure thing", "Sure thing", "Sure thing", "Sure thing",
		"idk", "idk", "idk",
	}))
	// (0.2 + 0.5 + 0.9) / 3 = 0.5333...
	assert.Equal(t, 0.53, AnswerQuality([]string{
		"Sure thing",
		"I have used Go for about two years.",
		"I maintained a payments service written in Go for three years.",
	}))
}

func TestCombine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		skill   float64
		quality float64
		want    float64
	}{
		{name: "no cap", skill: 0.5, quality: 0.9, want: 6.8},
		{name: "full skill cover", skill: 1.0, quality: 0.53, want: 7.9},
		{name: "zero skill caps at 2.5", skill: 0.0, quality: 0.9, want: 2.5},
		{name: "zero skill below cap", skill: 0.0, quality: 0.2, want: 0.9},
		{name: "poor answers cap at 3.0", skill: 0.8, quality: 0.1, want: 3.0},
		{name: "poor answers below cap", skill: 0.2, quality: 0.2, want: 2.0},
		{name: "quality at threshold is not capped", skill: 0.4, quality: 0.25, want: 3.3},
		{name: "zero skill takes precedence", skill: 0.0, quality: 0.0, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Combine(tt.skill, tt.quality))
		})
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.13, round(0.125, 2))
	assert.Equal(t, 0.38, round(0.375, 2))
	assert.Equal(t, -0.13, round(-0.125, 2))
	assert.Equal(t, 3.0, round(2.5, 0))
}

func TestScorersAreDeterministic(t *testing.T) {
	t.Parallel()

	idea := Text("Go, Postgres, Kafka")
	builder := List("kafka", "go")
	answers := []string{"nope", "I have shipped three Kafka consumers to production last year."}

	first := SkillMatch(idea, builder)
	quality := AnswerQuality(answers)
	for range 10 {
		assert.Equal(t, first, SkillMatch(idea, builder))
		assert.Equal(t, quality, AnswerQuality(answers))
	}
}
