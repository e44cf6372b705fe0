package filtering

import (
	"slices"

	"github.com/spigell/builder-match/internal/ideas"
)

// Candidates are the evaluated interests of one idea.
type Candidates struct {
	IdeaID int
	Items  []*ideas.Interest
}

// NewCandidates takes the interests of an idea in submission order.
func NewCandidates(idea ideas.Idea) *Candidates {
	items := make([]*ideas.Interest, 0, len(idea.Interests))
	for i := range idea.Interests {
		interest := idea.Interests[i]
		items = append(items, &interest)
	}
	return &Candidates{IdeaID: idea.ID, Items: items}
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// Exclude drops every candidate matching drop and returns their interest ids.
// Order of the remaining candidates is preserved.
func (c *Candidates) Exclude(drop func(*ideas.Interest) bool) []int {
	var excluded []int
	kept := c.Items[:0]
	for _, item := range c.Items {
		if drop(item) {
			excluded = append(excluded, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	return excluded
}

// Rank orders candidates by readiness, then skill match, both descending,
// then by interest id.
func (c *Candidates) Rank() {
	slices.SortStableFunc(c.Items, func(a, b *ideas.Interest) int {
		ea, eb := a.Evaluation, b.Evaluation
		switch {
		case ea.ReadinessScore != eb.ReadinessScore:
			if ea.ReadinessScore > eb.ReadinessScore {
				return -1
			}
			return 1
		case ea.SkillMatchRatio != eb.SkillMatchRatio:
			if ea.SkillMatchRatio > eb.SkillMatchRatio {
				return -1
			}
			return 1
		default:
			return a.ID - b.ID
		}
	})
}

// Limit keeps the first n candidates. Non-positive n keeps all.
func (c *Candidates) Limit(n int) []int {
	if n <= 0 || n >= len(c.Items) {
		return nil
	}
	dropped := make([]int, 0, len(c.Items)-n)
	for _, item := range c.Items[n:] {
		dropped = append(dropped, item.ID)
	}
	c.Items = c.Items[:n]
	return dropped
}
