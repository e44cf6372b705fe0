// Package intake validates idea and interest submissions and runs them
// through the store, the AI collaborators and the readiness engine.
package intake

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/readiness"
)

// IdeaSubmission is an idea as posted. Pointer fields tell "absent" apart
// from zero values.
type IdeaSubmission struct {
	Title            *string                 `mapstructure:"idea_title" validate:"required"`
	ProblemStatement *string                 `mapstructure:"problem_statement" validate:"required"`
	SolutionSummary  *string                 `mapstructure:"solution_summary" validate:"required"`
	TechStack        any                     `mapstructure:"tech_stack" validate:"required"`
	TeamRequirements []ideas.TeamRequirement `mapstructure:"team_requirements" validate:"required,dive"`
	EngagementType   *string                 `mapstructure:"engagement_type" validate:"required"`
	RequiredTeamSize *int                    `mapstructure:"required_team_size" validate:"required,gte=0"`
	Notes            string                  `mapstructure:"notes"`

	decodeErr error
}

// InterestSubmission is a builder's application to an idea.
type InterestSubmission struct {
	Name              *string  `mapstructure:"name" validate:"required"`
	Contact           *string  `mapstructure:"contact" validate:"required"`
	Email             *string  `mapstructure:"email" validate:"required"`
	TechStack         any      `mapstructure:"tech_stack" validate:"required"`
	YearsOfExperience *float64 `mapstructure:"years_of_experience" validate:"required,gte=0"`
	Answers           []string `mapstructure:"answers" validate:"required"`
	Comments          string   `mapstructure:"comments"`

	decodeErr error
}

// ValidationError is a client error: the submission was rejected before
// anything was stored or evaluated.
type ValidationError struct {
	Reason  string
	Missing []string
	Invalid []string
	Err     error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		fmt.Fprintf(&b, ": invalid %s", strings.Join(e.Invalid, ", "))
	}
	if e.Err != nil && e.Reason == "" {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate submission: %w", err)
	}

	verr := &ValidationError{Reason: "Missing fields"}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, fe.Field())
			continue
		}
		verr.Invalid = append(verr.Invalid, fe.Field())
	}
	if len(verr.Missing) == 0 {
		verr.Reason = "Invalid fields"
	}
	sort.Strings(verr.Missing)
	sort.Strings(verr.Invalid)

	return verr
}

// Spec validates the submission and converts it for the store.
func (s IdeaSubmission) Spec() (ideas.IdeaSpec, error) {
	if s.decodeErr != nil {
		return ideas.IdeaSpec{}, s.decodeErr
	}
	if err := validateStruct(s); err != nil {
		return ideas.IdeaSpec{}, err
	}

	if ideas.TeamSize(s.TeamRequirements) != *s.RequiredTeamSize {
		return ideas.IdeaSpec{}, &ValidationError{Reason: "Team size mismatch", Err: ideas.ErrTeamSizeMismatch}
	}

	return ideas.IdeaSpec{
		Title:            *s.Title,
		ProblemStatement: *s.ProblemStatement,
		SolutionSummary:  *s.SolutionSummary,
		TechStack:        readiness.StackFrom(s.TechStack),
		TeamRequirements: s.TeamRequirements,
		RequiredTeamSize: *s.RequiredTeamSize,
		EngagementType:   *s.EngagementType,
		Notes:            s.Notes,
	}, nil
}

// Fields validates the submission and converts it for the store. The
// evaluation is filled in later by the service.
func (s InterestSubmission) Fields() (ideas.InterestFields, error) {
	if s.decodeErr != nil {
		return ideas.InterestFields{}, s.decodeErr
	}
	if err := validateStruct(s); err != nil {
		return ideas.InterestFields{}, err
	}

	return ideas.InterestFields{
		Name:              *s.Name,
		Contact:           *s.Contact,
		Email:             *s.Email,
		TechStack:         readiness.StackFrom(s.TechStack),
		YearsOfExperience: *s.YearsOfExperience,
		Comments:          s.Comments,
		Answers:           append([]string(nil), s.Answers...),
	}, nil
}
