package ideas

import (
	"fmt"
	"sync"

	"github.com/spigell/builder-match/internal/readiness"
)

// Store is an in-memory collection of ideas. A single lock serializes all
// mutations; readers always get deep copies.
type Store struct {
	mu     sync.RWMutex
	ideas  []*Idea
	nextID int
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// CreateIdea validates the team shape, assigns the next id and appends the idea.
func (s *Store) CreateIdea(spec IdeaSpec) (Idea, error) {
	if size := TeamSize(spec.TeamRequirements); size != spec.RequiredTeamSize {
		return Idea{}, fmt.Errorf("%w: requirements sum to %d, required team size is %d",
			ErrTeamSizeMismatch, size, spec.RequiredTeamSize)
	}

	idea := &Idea{
		Title:              spec.Title,
		ProblemStatement:   spec.ProblemStatement,
		SolutionSummary:    spec.SolutionSummary,
		TechStack:          readiness.Normalize(spec.TechStack),
		TeamRequirements:   append([]TeamRequirement(nil), spec.TeamRequirements...),
		RequiredTeamSize:   spec.RequiredTeamSize,
		EngagementType:     spec.EngagementType,
		Notes:              spec.Notes,
		GeneratedQuestions: []string{},
		Interests:          []Interest{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID == 0 {
		s.nextID = 1
	}
	idea.ID = s.nextID
	s.nextID++
	s.ideas = append(s.ideas, idea)

	return idea.clone(), nil
}

// FindIdea returns the position of the idea with the given id.
func (s *Store) FindIdea(id int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id)
}

// Idea returns a snapshot of the idea with the given id.
func (s *Store) Idea(id int) (Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexOf(id)
	if !ok {
		return Idea{}, fmt.Errorf("%w: %d", ErrIdeaNotFound, id)
	}
	return s.ideas[idx].clone(), nil
}

// List returns snapshots of all ideas in creation order.
func (s *Store) List() []Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ideas := make([]Idea, 0, len(s.ideas))
	for _, idea := range s.ideas {
		ideas = append(ideas, idea.clone())
	}
	return ideas
}

// Len returns the number of stored ideas.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ideas)
}

// AttachQuestions replaces the idea's generated questions.
func (s *Store) AttachQuestions(id int, questions []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexOf(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrIdeaNotFound, id)
	}
	s.ideas[idx].GeneratedQuestions = cloneStrings(questions)
	return nil
}

// AppendInterest assigns the next interest id within the idea and appends it.
// The answer count is checked against the idea's questions under the same lock.
func (s *Store) AppendInterest(id int, fields InterestFields) (Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexOf(id)
	if !ok {
		return Interest{}, fmt.Errorf("%w: %d", ErrIdeaNotFound, id)
	}
	idea := s.ideas[idx]

	if len(fields.Answers) != len(idea.GeneratedQuestions) {
		return Interest{}, fmt.Errorf("%w: got %d answers for %d questions",
			ErrAnswerCountMismatch, len(fields.Answers), len(idea.GeneratedQuestions))
	}

	interest := Interest{
		ID:                len(idea.Interests) + 1,
		Name:              fields.Name,
		Contact:           fields.Contact,
		Email:             fields.Email,
		TechStack:         readiness.Normalize(fields.TechStack),
		YearsOfExperience: fields.YearsOfExperience,
		Comments:          fields.Comments,
		Answers:           cloneStrings(fields.Answers),
		Evaluation:        fields.Evaluation,
	}
	idea.Interests = append(idea.Interests, interest)

	return interest.clone(), nil
}

func (s *Store) indexOf(id int) (int, bool) {
	for idx, idea := range s.ideas {
		if idea.ID == id {
			return idx, true
		}
	}
	return -1, false
}
