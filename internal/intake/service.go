package intake

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/builder-match/internal/ai"
	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/logger"
	"github.com/spigell/builder-match/internal/readiness"
)

const defaultConcurrency = 4

// ErrQuestionsUnavailable is returned when no question writer is configured.
var ErrQuestionsUnavailable = errors.New("question generation is not configured")

type Config struct {
	// Concurrency bounds parallel personality requests in SubmitInterests.
	Concurrency int
}

type Deps struct {
	Store     *ideas.Store
	Profiler  ai.Profiler
	Questions ai.QuestionWriter
	Logger    *zap.Logger
}

// Service accepts submissions and records evaluated interests.
type Service struct {
	store       *ideas.Store
	profiler    ai.Profiler
	questions   ai.QuestionWriter
	logger      *zap.Logger
	concurrency int
}

// Result is what a builder gets back after applying: the stored interest and
// its evaluation fields at the top level.
type Result struct {
	Interest ideas.Interest `json:"interest"`
	readiness.Evaluation
}

// Outcome is the result of one submission in a batch.
type Outcome struct {
	Index  int
	Result *Result
	Err    error
}

func New(cfg Config, deps Deps) *Service {
	store := deps.Store
	if store == nil {
		store = ideas.NewStore()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Service{
		store:       store,
		profiler:    deps.Profiler,
		questions:   deps.Questions,
		logger:      logger.WithFields(deps.Logger),
		concurrency: concurrency,
	}
}

func (s *Service) Store() *ideas.Store { return s.store }

// SubmitIdea validates and stores a new idea.
func (s *Service) SubmitIdea(sub IdeaSubmission) (ideas.Idea, error) {
	spec, err := sub.Spec()
	if err != nil {
		return ideas.Idea{}, err
	}

	idea, err := s.store.CreateIdea(spec)
	if err != nil {
		if errors.Is(err, ideas.ErrTeamSizeMismatch) {
			return ideas.Idea{}, &ValidationError{Reason: "Team size mismatch", Err: err}
		}
		return ideas.Idea{}, err
	}

	s.logger.Info("idea created",
		append(logger.IdeaFields(idea.ID, 0),
			zap.String("title", idea.Title),
			zap.Strings("tech_stack", idea.TechStack),
			zap.Int("required_team_size", idea.RequiredTeamSize),
		)...,
	)

	return idea, nil
}

// GenerateQuestions asks the question writer for screening questions and
// replaces the idea's current ones.
func (s *Service) GenerateQuestions(ctx context.Context, ideaID int) ([]string, error) {
	if s.questions == nil {
		return nil, ErrQuestionsUnavailable
	}

	idea, err := s.store.Idea(ideaID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.Questions(ctx, idea)
	if err != nil {
		return nil, fmt.Errorf("generate questions for idea %d: %w", ideaID, err)
	}

	if err := s.store.AttachQuestions(ideaID, questions); err != nil {
		return nil, err
	}

	s.logger.Info("questions attached",
		append(logger.IdeaFields(ideaID, 0), zap.Int("count", len(questions)))...,
	)

	return questions, nil
}

// SubmitInterest validates one application, profiles and evaluates it, and
// appends it to the idea.
func (s *Service) SubmitInterest(ctx context.Context, ideaID int, sub InterestSubmission) (*Result, error) {
	idea, fields, err := s.prepare(ideaID, sub)
	if err != nil {
		return nil, err
	}

	personality := s.profile(ctx, idea, fields)
	return s.record(idea, fields, personality)
}

// SubmitInterests handles a batch for one idea. Personality requests run
// concurrently; interests are appended in input order.
func (s *Service) SubmitInterests(ctx context.Context, ideaID int, subs []InterestSubmission) []Outcome {
	outcomes := make([]Outcome, len(subs))
	prepared := make([]ideas.InterestFields, len(subs))
	snapshots := make([]ideas.Idea, len(subs))
	personalities := make([]readiness.Personality, len(subs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, sub := range subs {
		outcomes[i].Index = i

		idea, fields, err := s.prepare(ideaID, sub)
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		snapshots[i] = idea
		prepared[i] = fields

		g.Go(func() error {
			personalities[i] = s.profile(gCtx, idea, fields)
			return nil
		})
	}

	// profile never fails, so Wait only synchronizes.
	_ = g.Wait()

	for i := range subs {
		if outcomes[i].Err != nil {
			continue
		}
		outcomes[i].Result, outcomes[i].Err = s.record(snapshots[i], prepared[i], personalities[i])
	}

	return outcomes
}

func (s *Service) prepare(ideaID int, sub InterestSubmission) (ideas.Idea, ideas.InterestFields, error) {
	idea, err := s.store.Idea(ideaID)
	if err != nil {
		return ideas.Idea{}, ideas.InterestFields{}, err
	}

	fields, err := sub.Fields()
	if err != nil {
		return ideas.Idea{}, ideas.InterestFields{}, err
	}

	if len(fields.Answers) != len(idea.GeneratedQuestions) {
		return ideas.Idea{}, ideas.InterestFields{}, &ValidationError{
			Reason: "Answer count mismatch",
			Err:    ideas.ErrAnswerCountMismatch,
		}
	}

	return idea, fields, nil
}

// profile returns the classifier's descriptor, or the defaults when the
// classifier is absent or fails.
func (s *Service) profile(ctx context.Context, idea ideas.Idea, fields ideas.InterestFields) readiness.Personality {
	if s.profiler == nil {
		return readiness.DefaultPersonality()
	}

	personality, err := s.profiler.Profile(ctx, ai.ProfileRequest{
		Idea: idea,
		Builder: ai.Builder{
			Name:              fields.Name,
			TechStack:         readiness.Normalize(fields.TechStack),
			YearsOfExperience: fields.YearsOfExperience,
			Comments:          fields.Comments,
		},
		Questions: idea.GeneratedQuestions,
		Answers:   fields.Answers,
	})
	if err != nil || personality == nil {
		s.logger.Warn("personality classification failed, using defaults",
			append(logger.IdeaFields(idea.ID, 0),
				zap.String("builder", fields.Name),
				zap.Error(err),
			)...,
		)
		return readiness.DefaultPersonality()
	}

	return personality.WithDefaults()
}

func (s *Service) record(idea ideas.Idea, fields ideas.InterestFields, personality readiness.Personality) (*Result, error) {
	fields.Evaluation = readiness.Evaluate(readiness.EvaluationInput{
		IdeaStack:    idea.StackValue(),
		BuilderStack: fields.TechStack,
		Questions:    idea.GeneratedQuestions,
		Answers:      fields.Answers,
		Personality:  personality,
	})

	interest, err := s.store.AppendInterest(idea.ID, fields)
	if err != nil {
		if errors.Is(err, ideas.ErrAnswerCountMismatch) {
			return nil, &ValidationError{Reason: "Answer count mismatch", Err: err}
		}
		return nil, err
	}

	s.logger.Info("interest recorded",
		append(logger.IdeaFields(idea.ID, interest.ID),
			zap.String("builder", interest.Name),
			zap.Float64("readiness_score", interest.Evaluation.ReadinessScore),
			zap.Float64("skill_match_ratio", interest.Evaluation.SkillMatchRatio),
			zap.Float64("answer_quality", interest.Evaluation.AnswerQuality),
			zap.String("personality", interest.Evaluation.Personality),
		)...,
	)

	return &Result{Interest: interest, Evaluation: interest.Evaluation}, nil
}
