package ai

import (
	"context"

	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/readiness"
)

// QuestionCount is the number of screening questions generated per idea.
const QuestionCount = 5

// Builder is the part of an interest submission shared with the classifier.
type Builder struct {
	Name              string   `json:"name"`
	TechStack         []string `json:"tech_stack"`
	YearsOfExperience float64  `json:"years_of_experience"`
	Comments          string   `json:"comments,omitempty"`
}

// ProfileRequest carries everything the classifier sees about one application.
type ProfileRequest struct {
	Idea      ideas.Idea
	Builder   Builder
	Questions []string
	Answers   []string
}

// Profiler classifies a builder's personality. It never scores.
type Profiler interface {
	Profile(ctx context.Context, req ProfileRequest) (*readiness.Personality, error)
}

// QuestionWriter writes screening questions for an idea.
type QuestionWriter interface {
	Questions(ctx context.Context, idea ideas.Idea) ([]string, error)
}
