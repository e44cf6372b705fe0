package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/builder-match/internal/ai"
	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/readiness"
	"github.com/spigell/builder-match/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed profile_prompt.md
var profilePromptTemplate string

const (
	defaultMaxLogLength = 200
	profileSystem       = "You profile software builders applying to projects. You never rate or score them. Answer with a single JSON object."
)

// Profiler asks Gemini for a qualitative personality profile of a builder.
type Profiler struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewProfiler(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Profiler {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Profiler{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

type qna struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

func (p *Profiler) Profile(ctx context.Context, req ai.ProfileRequest) (*readiness.Personality, error) {
	ideaJSON, err := json.MarshalIndent(ideaPayload(req.Idea), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal idea payload: %w", err)
	}

	builderJSON, err := json.MarshalIndent(req.Builder, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal builder payload: %w", err)
	}

	pairs := make([]qna, 0, len(req.Answers))
	for i, answer := range req.Answers {
		question := ""
		if i < len(req.Questions) {
			question = req.Questions[i]
		}
		pairs = append(pairs, qna{Question: question, Answer: answer})
	}

	qnaJSON, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal answers payload: %w", err)
	}

	prompt := buildProfilePrompt(string(ideaJSON), string(builderJSON), string(qnaJSON))

	p.logger.Debug("gemini profile request",
		zap.Int("idea_id", req.Idea.ID),
		zap.String("builder", req.Builder.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, profileSystem, prompt)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini profile response",
		zap.Int("idea_id", req.Idea.ID),
		zap.String("builder", req.Builder.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	return parseProfile(raw)
}

func buildProfilePrompt(ideaJSON, builderJSON, qnaJSON string) string {
	template := profilePromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Idea:\n{{IDEA_JSON}}\n\nBuilder:\n{{BUILDER_JSON}}\n\nQnA:\n{{QNA_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{IDEA_JSON}}", ideaJSON)
	prompt = strings.ReplaceAll(prompt, "{{BUILDER_JSON}}", builderJSON)
	prompt = strings.ReplaceAll(prompt, "{{QNA_JSON}}", qnaJSON)
	return prompt
}

func parseProfile(raw string) (*readiness.Personality, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini profile: %w", err)
	}

	return &readiness.Personality{
		Personality: strings.TrimSpace(coerceString(data["personality"])),
		TeamFit:     coerceString(data["team_fit"]),
		Summary:     coerceString(data["summary"]),
	}, nil
}

// ideaPayload strips interests so other builders' data never reaches the prompt.
func ideaPayload(idea ideas.Idea) map[string]any {
	return map[string]any{
		"idea_title":         idea.Title,
		"problem_statement":  idea.ProblemStatement,
		"solution_summary":   idea.SolutionSummary,
		"tech_stack":         idea.TechStack,
		"team_requirements":  idea.TeamRequirements,
		"required_team_size": idea.RequiredTeamSize,
		"engagement_type":    idea.EngagementType,
		"notes":              idea.Notes,
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// coerceString renders v as text without altering string values.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
