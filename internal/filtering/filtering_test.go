package filtering

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/builder-match/internal/ideas"
	"github.com/spigell/builder-match/internal/readiness"
)

func candidate(id int, email string, readinessScore, skill float64) ideas.Interest {
	return ideas.Interest{
		ID:    id,
		Email: email,
		Evaluation: readiness.Evaluation{
			ReadinessScore:  readinessScore,
			SkillMatchRatio: skill,
		},
	}
}

func testCandidates() *Candidates {
	return NewCandidates(ideas.Idea{
		ID: 7,
		Interests: []ideas.Interest{
			candidate(1, "ann@example.com", 6.8, 0.5),
			candidate(2, "Bob@Example.com", 2.5, 0),
			candidate(3, "cid@example.com", 6.8, 0.75),
			candidate(4, "dee@example.com", 4.1, 0.25),
		},
	})
}

func ids(c *Candidates) []int {
	out := make([]int, 0, c.Len())
	for _, item := range c.Items {
		out = append(out, item.ID)
	}
	return out
}

func TestRunFiltersAppliesStepsInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := New([]Filter{
		NewExcludedEmails([]string{" BOB@example.com "}),
		NewSkillOverlap(true),
		NewMinimumReadiness(5),
	}, zap.New(core))

	got, steps, err := f.RunFilters(context.Background(), testCandidates())
	if err != nil {
		t.Fatalf("RunFilters returned error: %v", err)
	}

	if want := []int{1, 3}; !equalInts(ids(got), want) {
		t.Fatalf("unexpected candidates left: got %v want %v", ids(got), want)
	}

	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Name != "exclude_emails" || !equalInts(steps[0].Dropped, []int{2}) {
		t.Fatalf("unexpected first step: %+v", steps[0])
	}
	if steps[1].Initial != 3 || len(steps[1].Dropped) != 0 || steps[1].Left != 3 {
		t.Fatalf("unexpected skill overlap step: %+v", steps[1])
	}
	if steps[2].Name != "minimum_readiness" || !equalInts(steps[2].Dropped, []int{4}) || steps[2].Left != 2 {
		t.Fatalf("unexpected readiness step: %+v", steps[2])
	}

	if n := logs.FilterMessage("filter step").Len(); n != 3 {
		t.Fatalf("expected 3 step logs, got %d", n)
	}
}

func TestRunFiltersSkipsDisabledSteps(t *testing.T) {
	f := New([]Filter{
		NewSkillOverlap(false),
		NewMinimumReadiness(0),
	}, nil)

	got, steps, err := f.RunFilters(context.Background(), testCandidates())
	if err != nil {
		t.Fatalf("RunFilters returned error: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("expected no steps, got %+v", steps)
	}
	if got.Len() != 4 {
		t.Fatalf("expected all candidates, got %d", got.Len())
	}
}

func TestRunFiltersValidatesBeforeApplying(t *testing.T) {
	f := New([]Filter{
		NewExcludedEmails([]string{"ann@example.com"}),
		NewMinimumReadiness(11),
	}, nil)

	c := testCandidates()
	if _, _, err := f.RunFilters(context.Background(), c); err == nil {
		t.Fatal("expected validation error")
	}
	if c.Len() != 4 {
		t.Fatalf("no step should run on validation failure, got %d candidates", c.Len())
	}
}

type failingFilter struct{}

func (failingFilter) Name() string { return "failing" }
func (failingFilter) Disable(string) {}
func (failingFilter) IsEnabled() bool { return true }
func (failingFilter) Validate() error { return nil }
func (failingFilter) Apply(context.Context, *Candidates) (*Candidates, Step, error) {
	return nil, Step{}, errors.New("boom")
}

func TestRunFiltersWrapsStepError(t *testing.T) {
	_, _, err := New([]Filter{failingFilter{}}, nil).RunFilters(context.Background(), testCandidates())
	if err == nil || err.Error() != "failing: boom" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDisableByNameAndDescribe(t *testing.T) {
	f := New([]Filter{
		NewExcludedEmails([]string{"a@example.com", "B@example.com"}),
		NewSkillOverlap(true),
		NewMinimumReadiness(3.5),
	}, nil)

	if !f.DisableByName("skill_overlap", "disabled from cli") {
		t.Fatal("expected skill_overlap to be found")
	}
	if f.DisableByName("unknown", "disabled from cli") {
		t.Fatal("unknown filter must not be reported as found")
	}

	statuses := f.Describe()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[0].Details["emails"] != "a@example.com,b@example.com" {
		t.Fatalf("unexpected email details: %v", statuses[0].Details)
	}
	if statuses[1].Enabled || statuses[1].Reason != "disabled from cli" {
		t.Fatalf("unexpected skill overlap status: %+v", statuses[1])
	}
	if !statuses[2].Enabled || statuses[2].Details["minimum"] != "3.5" {
		t.Fatalf("unexpected readiness status: %+v", statuses[2])
	}
}

func TestDisabledEmailFilterKeepsEveryone(t *testing.T) {
	f := New([]Filter{NewExcludedEmails([]string{"ann@example.com"})}, nil)
	f.DisableByName("exclude_emails", "skipped")

	got, steps, err := f.RunFilters(context.Background(), testCandidates())
	if err != nil {
		t.Fatalf("RunFilters returned error: %v", err)
	}
	if got.Len() != 4 || len(steps) != 0 {
		t.Fatalf("expected the disabled filter to be skipped, got %d candidates and %+v", got.Len(), steps)
	}

	status := f.Describe()[0]
	if status.Enabled || status.Reason != "skipped" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestRankOrdersByReadinessThenSkillThenID(t *testing.T) {
	c := testCandidates()
	c.Rank()

	if want := []int{3, 1, 4, 2}; !equalInts(ids(c), want) {
		t.Fatalf("unexpected order: got %v want %v", ids(c), want)
	}
}

func TestRankBreaksFullTiesByID(t *testing.T) {
	c := NewCandidates(ideas.Idea{Interests: []ideas.Interest{
		candidate(5, "", 3, 0.5),
		candidate(2, "", 3, 0.5),
	}})
	c.Rank()

	if want := []int{2, 5}; !equalInts(ids(c), want) {
		t.Fatalf("unexpected order: got %v want %v", ids(c), want)
	}
}

func TestLimit(t *testing.T) {
	c := testCandidates()
	c.Rank()

	dropped := c.Limit(2)
	if !equalInts(dropped, []int{4, 2}) {
		t.Fatalf("unexpected dropped ids: %v", dropped)
	}
	if !equalInts(ids(c), []int{3, 1}) {
		t.Fatalf("unexpected kept ids: %v", ids(c))
	}

	if dropped := c.Limit(0); dropped != nil || c.Len() != 2 {
		t.Fatalf("zero limit must keep all, dropped %v", dropped)
	}
}

func TestNewCandidatesDoesNotAliasIdea(t *testing.T) {
	idea := ideas.Idea{Interests: []ideas.Interest{candidate(1, "a@example.com", 1, 1)}}
	c := NewCandidates(idea)
	c.Items[0].Email = "changed"

	if idea.Interests[0].Email != "a@example.com" {
		t.Fatal("candidates must not alias the idea interests")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
