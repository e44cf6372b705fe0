package filtering

import (
	"context"
	"slices"
	"strings"

	"github.com/spigell/builder-match/internal/ideas"
)

type excludeEmailsFilter struct {
	enabled bool
	reason  string
	emails  []string
}

// NewExcludedEmails creates a filter that removes candidates by email.
func NewExcludedEmails(emails []string) Filter {
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			normalized = append(normalized, email)
		}
	}
	return &excludeEmailsFilter{enabled: true, emails: normalized}
}

func (f *excludeEmailsFilter) Name() string { return "exclude_emails" }

func (f *excludeEmailsFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludeEmailsFilter) IsEnabled() bool { return f.enabled }

func (f *excludeEmailsFilter) Validate() error { return nil }

func (f *excludeEmailsFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if len(f.emails) == 0 {
		return c, Step{Initial: initial, Left: c.Len()}, nil
	}

	excluded := c.Exclude(func(in *ideas.Interest) bool {
		return slices.Contains(f.emails, strings.ToLower(strings.TrimSpace(in.Email)))
	})

	return c, Step{Initial: initial, Dropped: excluded, Left: c.Len()}, nil
}

func (f *excludeEmailsFilter) Status() Status {
	details := map[string]string{}
	if len(f.emails) > 0 {
		details["emails"] = strings.Join(f.emails, ",")
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
