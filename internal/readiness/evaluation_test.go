package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	eval := Evaluate(EvaluationInput{
		IdeaStack:    List("React", "Node"),
		BuilderStack: List("node", "Vue"),
		Questions:    []string{"What have you built with Node?"},
		Answers:      []string{"I have built several production Node backends over the past three years."},
		Personality: Personality{
			Personality: "pragmatist",
			TeamFit:     "Fits a small backend-heavy team.",
			Summary:     "Seasoned Node developer.",
		},
	})

	assert.Equal(t, Evaluation{
		ReadinessScore:  6.8,
		SkillMatchRatio: 0.5,
		AnswerQuality:   0.9,
		Personality:     "pragmatist",
		TeamFit:         "Fits a small backend-heavy team.",
		Summary:         "Seasoned Node developer.",
	}, eval)
}

func TestEvaluateDefaultsPersonality(t *testing.T) {
	t.Parallel()

	eval := Evaluate(EvaluationInput{})

	assert.Equal(t, "unknown", eval.Personality)
	assert.Empty(t, eval.TeamFit)
	assert.Empty(t, eval.Summary)
	assert.Equal(t, 0.0, eval.ReadinessScore)
	assert.Equal(t, 0.0, eval.SkillMatchRatio)
	assert.Equal(t, 0.0, eval.AnswerQuality)
}

func TestPersonalityWithDefaults(t *testing.T) {
	t.Parallel()

	p := Personality{TeamFit: "ok"}.WithDefaults()
	assert.Equal(t, Personality{Personality: "unknown", TeamFit: "ok"}, p)
	assert.Equal(t, Personality{Personality: "unknown"}, DefaultPersonality())
}
