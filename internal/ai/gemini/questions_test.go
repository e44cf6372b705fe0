package gemini

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestQuestionWriterQuestions(t *testing.T) {
	stub := &stubGenerator{response: `{"questions": ["q1", "q2", " ", "q3", "q4", "q5", "q6"]}`}
	writer := NewQuestionWriter(stub, 50, zap.NewNop())

	questions, err := writer.Questions(context.Background(), testIdea())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"q1", "q2", "q3", "q4", "q5"}
	if strings.Join(questions, ",") != strings.Join(expected, ",") {
		t.Fatalf("unexpected questions: %v", questions)
	}

	if !strings.Contains(stub.lastPrompt, "EXACTLY 5") {
		t.Fatalf("expected question count in prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Builder board") {
		t.Fatalf("expected idea title in prompt")
	}
}

func TestQuestionWriterRejectsTooFewQuestions(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"questions\": [\"q1\", \"q2\"]}\n```"}
	writer := NewQuestionWriter(stub, 0, nil)

	if _, err := writer.Questions(context.Background(), testIdea()); err == nil {
		t.Fatalf("expected error for too few questions")
	}
}
