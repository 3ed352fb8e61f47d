package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

// MockContentProvider is a mock implementation of ContentProvider interface.
// Unset functions return no movies.
type MockContentProvider struct {
	SearchByTitleFunc   func(ctx context.Context, title string) ([]domain.Movie, error)
	DiscoverByGenreFunc func(ctx context.Context, genreIDs []int) ([]domain.Movie, error)
	RecommendationsFunc func(ctx context.Context, movieID int) ([]domain.Movie, error)
	SimilarFunc         func(ctx context.Context, movieID int) ([]domain.Movie, error)
	PopularFunc         func(ctx context.Context) ([]domain.Movie, error)
	CreditsFunc         func(ctx context.Context, movieID int) ([]domain.CrewMember, error)

	mu    sync.Mutex
	Calls []string
}

func (m *MockContentProvider) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

// Called reports whether the named method was invoked.
func (m *MockContentProvider) Called(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *MockContentProvider) SearchByTitle(ctx context.Context, title string) ([]domain.Movie, error) {
	m.record("SearchByTitle")
	if m.SearchByTitleFunc != nil {
		return m.SearchByTitleFunc(ctx, title)
	}
	return []domain.Movie{}, nil
}

func (m *MockContentProvider) DiscoverByGenre(ctx context.Context, genreIDs []int) ([]domain.Movie, error) {
	m.record("DiscoverByGenre")
	if m.DiscoverByGenreFunc != nil {
		return m.DiscoverByGenreFunc(ctx, genreIDs)
	}
	return []domain.Movie{}, nil
}

func (m *MockContentProvider) Recommendations(ctx context.Context, movieID int) ([]domain.Movie, error) {
	m.record("Recommendations")
	if m.RecommendationsFunc != nil {
		return m.RecommendationsFunc(ctx, movieID)
	}
	return []domain.Movie{}, nil
}

func (m *MockContentProvider) Similar(ctx context.Context, movieID int) ([]domain.Movie, error) {
	m.record("Similar")
	if m.SimilarFunc != nil {
		return m.SimilarFunc(ctx, movieID)
	}
	return []domain.Movie{}, nil
}

func (m *MockContentProvider) Popular(ctx context.Context) ([]domain.Movie, error) {
	m.record("Popular")
	if m.PopularFunc != nil {
		return m.PopularFunc(ctx)
	}
	return []domain.Movie{}, nil
}

func (m *MockContentProvider) Credits(ctx context.Context, movieID int) ([]domain.CrewMember, error) {
	m.record("Credits")
	if m.CreditsFunc != nil {
		return m.CreditsFunc(ctx, movieID)
	}
	return []domain.CrewMember{}, nil
}

// MockWeatherProvider is a mock implementation of WeatherProvider interface
type MockWeatherProvider struct {
	CurrentFunc func(ctx context.Context, location string) (*domain.Weather, error)
}

func (m *MockWeatherProvider) Current(ctx context.Context, location string) (*domain.Weather, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, location)
	}
	return &domain.Weather{Location: location}, nil
}

// MockTransitProvider is a mock implementation of TransitProvider interface
type MockTransitProvider struct {
	LiveDeparturesFunc func(ctx context.Context, origin, destination string) ([]domain.Departure, error)
}

func (m *MockTransitProvider) LiveDepartures(ctx context.Context, origin, destination string) ([]domain.Departure, error) {
	if m.LiveDeparturesFunc != nil {
		return m.LiveDeparturesFunc(ctx, origin, destination)
	}
	return []domain.Departure{}, nil
}

// MockAssistant is a mock implementation of Assistant interface
type MockAssistant struct {
	ComposeFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	Prompts []string
}

func (m *MockAssistant) Compose(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.ComposeFunc != nil {
		return m.ComposeFunc(ctx, prompt)
	}
	return "", nil
}

// LastPrompt returns the most recent prompt, or "" when none was sent.
func (m *MockAssistant) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
