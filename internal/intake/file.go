package intake

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/logger"
)

// File is an intake file: ideas, optionally with ready questions, and the
// builder submissions for each of them.
type File struct {
	Ideas []FileIdea `mapstructure:"ideas"`
}

type FileIdea struct {
	IdeaSubmission `mapstructure:",squash"`
	Questions      []string             `mapstructure:"questions"`
	Interests      []InterestSubmission `mapstructure:"interests"`
}

// IdeaOutcome reports what happened to one idea of an intake file.
type IdeaOutcome struct {
	Index     int
	Idea      ideas.Idea
	Err       error
	Interests []Outcome
}

type IngestOptions struct {
	// GenerateQuestions asks the question writer for ideas without questions.
	GenerateQuestions bool
}

// LoadFile reads an intake file in any format viper understands.
func LoadFile(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading intake file %q: %w", path, err)
	}

	return DecodeFile(v.AllSettings())
}

// DecodeFile decodes loosely typed intake data. Numbers given as strings are
// accepted the way a form post would send them. A value that cannot be decoded
// rejects only the idea or interest it belongs to.
func DecodeFile(raw map[string]any) (*File, error) {
	var top struct {
		Ideas []any `mapstructure:"ideas"`
	}
	if err := decode(raw, &top); err != nil {
		return nil, fmt.Errorf("decoding intake file: %w", err)
	}

	file := &File{Ideas: make([]FileIdea, 0, len(top.Ideas))}
	for _, entry := range top.Ideas {
		file.Ideas = append(file.Ideas, decodeIdea(entry))
	}

	return file, nil
}

func decodeIdea(entry any) FileIdea {
	var fields struct {
		IdeaSubmission `mapstructure:",squash"`
		Questions      []string `mapstructure:"questions"`
		Interests      []any    `mapstructure:"interests"`
	}
	if err := decode(entry, &fields); err != nil {
		return FileIdea{IdeaSubmission: IdeaSubmission{decodeErr: decodeError(err)}}
	}

	if presentButNull(entry, "tech_stack") {
		fields.TechStack = []any{}
	}

	idea := FileIdea{
		IdeaSubmission: fields.IdeaSubmission,
		Questions:      fields.Questions,
		Interests:      make([]InterestSubmission, 0, len(fields.Interests)),
	}
	for _, raw := range fields.Interests {
		idea.Interests = append(idea.Interests, decodeInterest(raw))
	}

	return idea
}

func decodeInterest(entry any) InterestSubmission {
	var sub InterestSubmission
	if err := decode(entry, &sub); err != nil {
		return InterestSubmission{decodeErr: decodeError(err)}
	}

	if presentButNull(entry, "tech_stack") {
		sub.TechStack = []any{}
	}

	return sub
}

func decode(input, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return fmt.Errorf("creating intake decoder: %w", err)
	}

	return decoder.Decode(input)
}

// presentButNull reports whether key is given explicitly as null. Such a
// stack counts as empty, not missing.
func presentButNull(entry any, key string) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	v, present := m[key]
	return present && v == nil
}

// decodeFieldPattern captures the field name mapstructure quotes first in
// each of its error messages.
var decodeFieldPattern = regexp.MustCompile(`'([^']+)'`)

func decodeError(err error) *ValidationError {
	verr := &ValidationError{Reason: "Invalid fields", Err: err}

	var merr *mapstructure.Error
	if !errors.As(err, &merr) {
		return verr
	}

	for _, msg := range merr.Errors {
		if match := decodeFieldPattern.FindStringSubmatch(msg); match != nil {
			verr.Invalid = append(verr.Invalid, match[1])
		}
	}
	sort.Strings(verr.Invalid)

	return verr
}

// Ingest creates every idea of the file, attaches or generates questions and
// submits the interests. Per-idea and per-interest failures are reported in
// the outcomes; the returned error is only set when ctx is done.
func (s *Service) Ingest(ctx context.Context, file *File, opts IngestOptions) ([]IdeaOutcome, error) {
	if file == nil {
		return nil, errors.New("intake file is required")
	}

	outcomes := make([]IdeaOutcome, 0, len(file.Ideas))
	for i, entry := range file.Ideas {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := IdeaOutcome{Index: i}

		idea, err := s.SubmitIdea(entry.IdeaSubmission)
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			s.logger.Warn("idea rejected", zap.Int("index", i), zap.Error(err))
			continue
		}

		switch {
		case len(entry.Questions) > 0:
			err = s.store.AttachQuestions(idea.ID, entry.Questions)
		case opts.GenerateQuestions:
			_, err = s.GenerateQuestions(ctx, idea.ID)
		}
		if err != nil {
			s.logger.Warn("questions unavailable", append(logger.IdeaFields(idea.ID, 0), zap.Error(err))...)
		}

		outcome.Interests = s.SubmitInterests(ctx, idea.ID, entry.Interests)
		for _, res := range outcome.Interests {
			if res.Err != nil {
				s.logger.Warn("interest rejected",
					append(logger.IdeaFields(idea.ID, 0), zap.Int("index", res.Index), zap.Error(res.Err))...,
				)
			}
		}

		if outcome.Idea, err = s.store.Idea(idea.ID); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}
