package filtering

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/spigell/builder-match/internal/ideas"
)

type minimumReadinessFilter struct {
	enabled bool
	reason  string
	minimum float64
}

// NewMinimumReadiness drops candidates scoring below minimum. A zero minimum
// disables the step.
func NewMinimumReadiness(minimum float64) Filter {
	return &minimumReadinessFilter{enabled: minimum != 0, minimum: minimum}
}

func (f *minimumReadinessFilter) Name() string { return "minimum_readiness" }

func (f *minimumReadinessFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minimumReadinessFilter) IsEnabled() bool { return f.enabled }

func (f *minimumReadinessFilter) Validate() error {
	if math.IsNaN(f.minimum) || f.minimum < 0 || f.minimum > 10 {
		return fmt.Errorf("minimum readiness must be within [0, 10], got %v", f.minimum)
	}
	return nil
}

func (f *minimumReadinessFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.Exclude(func(in *ideas.Interest) bool {
		return in.Evaluation.ReadinessScore < f.minimum
	})
	return c, Step{Initial: initial, Dropped: excluded, Left: c.Len()}, nil
}

func (f *minimumReadinessFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum": strconv.FormatFloat(f.minimum, 'f', 1, 64)},
	}
}

type skillOverlapFilter struct {
	enabled bool
	reason  string
}

// NewSkillOverlap drops candidates sharing no technology with the idea.
func NewSkillOverlap(enabled bool) Filter {
	return &skillOverlapFilter{enabled: enabled}
}

func (f *skillOverlapFilter) Name() string { return "skill_overlap" }

func (f *skillOverlapFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *skillOverlapFilter) IsEnabled() bool { return f.enabled }

func (f *skillOverlapFilter) Validate() error { return nil }

func (f *skillOverlapFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.Exclude(func(in *ideas.Interest) bool {
		return in.Evaluation.SkillMatchRatio == 0
	})
	return c, Step{Initial: initial, Dropped: excluded, Left: c.Len()}, nil
}

func (f *skillOverlapFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}
