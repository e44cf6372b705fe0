package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/builder-match/internal/ai"
	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/utils"
)

//go:embed questions_prompt.md
var questionsPromptTemplate string

const questionsSystem = "You write screening questions for builders applying to software projects. Answer with a single JSON object."

// QuestionWriter asks Gemini for screening questions.
type QuestionWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewQuestionWriter(generator contentGenerator, maxLogLength int, logger *zap.Logger) *QuestionWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QuestionWriter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Questions returns exactly ai.QuestionCount questions. Extra questions are
// dropped; fewer is an error.
func (w *QuestionWriter) Questions(ctx context.Context, idea ideas.Idea) ([]string, error) {
	ideaJSON, err := json.MarshalIndent(ideaPayload(idea), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal idea payload: %w", err)
	}

	prompt := buildQuestionsPrompt(string(ideaJSON))

	w.logger.Debug("gemini questions request",
		zap.Int("idea_id", idea.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, questionsSystem, prompt)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("gemini questions response",
		zap.Int("idea_id", idea.ID),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	questions, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}

	if len(questions) < ai.QuestionCount {
		return nil, fmt.Errorf("gemini returned %d questions, want %d", len(questions), ai.QuestionCount)
	}

	return questions[:ai.QuestionCount], nil
}

func buildQuestionsPrompt(ideaJSON string) string {
	template := questionsPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Generate EXACTLY {{COUNT}} builder screening questions.\nIdea:\n{{IDEA_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{COUNT}}", strconv.Itoa(ai.QuestionCount))
	prompt = strings.ReplaceAll(prompt, "{{IDEA_JSON}}", ideaJSON)
	return prompt
}

func parseQuestions(raw string) ([]string, error) {
	var data struct {
		Questions []any `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini questions: %w", err)
	}

	questions := make([]string, 0, len(data.Questions))
	for _, q := range data.Questions {
		text := strings.TrimSpace(coerceString(q))
		if text == "" {
			continue
		}
		questions = append(questions, text)
	}

	return questions, nil
}
