// Package report collects ranked candidates per idea for printing and dumping.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spigell/builder-match/internal/filtering"
	"github.com/spigell/builder-match/internal/intake"
	"github.com/spigell/builder-match/internal/readiness"
)

type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Ideas       []*IdeaReport `json:"ideas"`
}

type IdeaReport struct {
	Index     int              `json:"index"`
	IdeaID    int              `json:"idea_id,omitempty"`
	Title     string           `json:"idea_title,omitempty"`
	Questions []string         `json:"generated_questions,omitempty"`
	Ranked    []*Entry         `json:"ranked"`
	Rejected  []Rejection      `json:"rejected,omitempty"`
	Steps     []filtering.Step `json:"steps,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Entry is one ranked candidate.
type Entry struct {
	Rank       int    `json:"rank"`
	InterestID int    `json:"interest_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	readiness.Evaluation
}

// Rejection is a submission that never made it into the store.
type Rejection struct {
	Index   int      `json:"index"`
	Reason  string   `json:"reason"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func New(runID string, generatedAt time.Time) *Report {
	return &Report{RunID: runID, GeneratedAt: generatedAt.UTC()}
}

// Add records an ingested idea. ranked may be nil when the idea was rejected.
func (r *Report) Add(outcome intake.IdeaOutcome, ranked *filtering.Candidates, steps []filtering.Step) *IdeaReport {
	item := &IdeaReport{Index: outcome.Index, Ranked: []*Entry{}}
	r.Ideas = append(r.Ideas, item)

	if outcome.Err != nil {
		item.Error = outcome.Err.Error()
		return item
	}

	item.IdeaID = outcome.Idea.ID
	item.Title = outcome.Idea.Title
	item.Questions = outcome.Idea.GeneratedQuestions
	item.Steps = steps

	for _, res := range outcome.Interests {
		if res.Err != nil {
			item.Rejected = append(item.Rejected, rejection(res.Index, res.Err))
		}
	}

	if ranked == nil {
		return item
	}

	for i, c := range ranked.Items {
		item.Ranked = append(item.Ranked, &Entry{
			Rank:       i + 1,
			InterestID: c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Evaluation: c.Evaluation,
		})
	}

	return item
}

func rejection(index int, err error) Rejection {
	var verr *intake.ValidationError
	if errors.As(err, &verr) {
		return Rejection{Index: index, Reason: verr.Reason, Missing: verr.Missing, Invalid: verr.Invalid}
	}
	return Rejection{Index: index, Reason: err.Error()}
}

// Len returns the number of ranked candidates over all ideas.
func (r *Report) Len() int {
	total := 0
	for _, idea := range r.Ideas {
		total += len(idea.Ranked)
	}
	return total
}

// ByIdea flattens the ranking into a short per-idea listing for the console.
func (r *Report) ByIdea() map[string][]map[string]string {
	result := make(map[string][]map[string]string)
	for _, idea := range r.Ideas {
		if idea.Error != "" {
			continue
		}

		key := fmt.Sprintf("%d %s", idea.IdeaID, idea.Title)
		rows := make([]map[string]string, 0, len(idea.Ranked))
		for _, e := range idea.Ranked {
			rows = append(rows, map[string]string{
				"rank":      strconv.Itoa(e.Rank),
				"name":      e.Name,
				"email":     e.Email,
				"readiness": strconv.FormatFloat(e.ReadinessScore, 'f', 1, 64),
				"summary":   e.Summary,
			})
		}
		result[key] = rows
	}
	return result
}

func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "builder_match_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
