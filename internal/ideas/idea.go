// Package ideas keeps posted ideas and the builder interests submitted to them.
package ideas

import (
	"errors"

	"github.com/spigell/builder-match/internal/readiness"
)

var (
	ErrIdeaNotFound        = errors.New("idea not found")
	ErrTeamSizeMismatch    = errors.New("team size mismatch")
	ErrAnswerCountMismatch = errors.New("answer count mismatch")
)

type TeamRequirement struct {
	Role  string `json:"role" mapstructure:"role"`
	Count int    `json:"count" mapstructure:"count" validate:"gte=0"`
}

// IdeaSpec holds the fields of a new idea. TechStack is normalized on creation.
type IdeaSpec struct {
	Title            string
	ProblemStatement string
	SolutionSummary  string
	TechStack        readiness.Stack
	TeamRequirements []TeamRequirement
	RequiredTeamSize int
	EngagementType   string
	Notes            string
}

type Idea struct {
	ID                 int               `json:"id"`
	Title              string            `json:"idea_title"`
	ProblemStatement   string            `json:"problem_statement"`
	SolutionSummary    string            `json:"solution_summary"`
	TechStack          []string          `json:"tech_stack"`
	TeamRequirements   []TeamRequirement `json:"team_requirements"`
	RequiredTeamSize   int               `json:"required_team_size"`
	EngagementType     string            `json:"engagement_type"`
	Notes              string            `json:"notes"`
	GeneratedQuestions []string          `json:"generated_questions"`
	Interests          []Interest        `json:"interests"`
}

// InterestFields holds a builder's application before it gets an id.
type InterestFields struct {
	Name              string
	Contact           string
	Email             string
	TechStack         readiness.Stack
	YearsOfExperience float64
	Comments          string
	Answers           []string
	Evaluation        readiness.Evaluation
}

type Interest struct {
	ID                int                  `json:"interest_id"`
	Name              string               `json:"name"`
	Contact           string               `json:"contact"`
	Email             string               `json:"email"`
	TechStack         []string             `json:"tech_stack"`
	YearsOfExperience float64              `json:"years_of_experience"`
	Comments          string               `json:"comments"`
	Answers           []string             `json:"answers"`
	Evaluation        readiness.Evaluation `json:"evaluation"`
}

// TeamSize sums the counts of all team requirements.
func TeamSize(requirements []TeamRequirement) int {
	total := 0
	for _, r := range requirements {
		total += r.Count
	}
	return total
}

// StackValue returns the idea's normalized stack in engine form.
func (i Idea) StackValue() readiness.Stack {
	return readiness.List(i.TechStack...)
}

func (i Idea) clone() Idea {
	i.TechStack = cloneStrings(i.TechStack)
	i.TeamRequirements = append([]TeamRequirement(nil), i.TeamRequirements...)
	i.GeneratedQuestions = cloneStrings(i.GeneratedQuestions)

	interests := make([]Interest, len(i.Interests))
	for idx, interest := range i.Interests {
		interests[idx] = interest.clone()
	}
	i.Interests = interests
	return i
}

func (in Interest) clone() Interest {
	in.TechStack = cloneStrings(in.TechStack)
	in.Answers = cloneStrings(in.Answers)
	return in
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string(nil), s...)
}
