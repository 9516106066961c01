package workout

import (
	"context"
	"math/rand"
	"sync"
)

// TemplateSource abstracts the template store for tests.
type TemplateSource interface {
	LoadSet(ctx context.Context, pattern Pattern) (TemplateSet, error)
}

type Service struct {
	templates TemplateSource

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService builds a composition service. rng may be nil, in which case a
// time-seeded source is used; tests inject a fixed seed.
func NewService(templates TemplateSource, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Service{templates: templates, rng: rng}
}

// Generate fetches the templates the pattern needs and composes a workout
// at the given attribute levels.
func (s *Service) Generate(ctx context.Context, pattern Pattern, attrs Attributes) (Workout, error) {
	set, err := s.templates.LoadSet(ctx, pattern)
	if err != nil {
		return Workout{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Compose(pattern, set, attrs, s.rng)
}
