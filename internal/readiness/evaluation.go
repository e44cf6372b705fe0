package readiness

import "strings"

const defaultPersonality = "unknown"

// Personality is the qualitative profile produced outside the engine.
// It never carries a score.
type Personality struct {
	Personality string `json:"personality"`
	TeamFit     string `json:"team_fit"`
	Summary     string `json:"summary"`
}

// WithDefaults fills absent fields: "unknown" for the label, empty strings otherwise.
func (p Personality) WithDefaults() Personality {
	if strings.TrimSpace(p.Personality) == "" {
		p.Personality = defaultPersonality
	}
	return p
}

// DefaultPersonality is used when the classifier is disabled or failed.
func DefaultPersonality() Personality {
	return Personality{}.WithDefaults()
}

// Evaluation is the readiness assessment of one builder for one idea.
type Evaluation struct {
	ReadinessScore  float64 `json:"readiness_score"`
	SkillMatchRatio float64 `json:"skill_match_ratio"`
	AnswerQuality   float64 `json:"answer_quality"`
	Personality     string  `json:"personality"`
	TeamFit         string  `json:"team_fit"`
	Summary         string  `json:"summary"`
}

// EvaluationInput holds everything Evaluate needs. Questions are carried for
// symmetry with the classifier input and do not affect the score.
type EvaluationInput struct {
	IdeaStack    Stack
	BuilderStack Stack
	Questions    []string
	Answers      []string
	Personality  Personality
}

// Evaluate runs the scorers and attaches the personality fields verbatim.
func Evaluate(in EvaluationInput) Evaluation {
	skillMatch := SkillMatch(in.IdeaStack, in.BuilderStack)
	quality := AnswerQuality(in.Answers)
	personality := in.Personality.WithDefaults()

	return Evaluation{
		ReadinessScore:  Combine(skillMatch, quality),
		SkillMatchRatio: skillMatch,
		AnswerQuality:   quality,
		Personality:     personality.Personality,
		TeamFit:         personality.TeamFit,
		Summary:         personality.Summary,
	}
}
