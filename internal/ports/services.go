package ports

import (
	"context"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

// ContentProvider is the movie catalogue.
type ContentProvider interface {
	SearchByTitle(ctx context.Context, title string) ([]domain.Movie, error)
	DiscoverByGenre(ctx context.Context, genreIDs []int) ([]domain.Movie, error)
	Recommendations(ctx context.Context, movieID int) ([]domain.Movie, error)
	Similar(ctx context.Context, movieID int) ([]domain.Movie, error)
	Popular(ctx context.Context) ([]domain.Movie, error)
	Credits(ctx context.Context, movieID int) ([]domain.CrewMember, error)
}

type WeatherProvider interface {
	Current(ctx context.Context, location string) (*domain.Weather, error)
}

// TransitProvider returns live departures between two CRS codes. A non-2xx
// answer is reported as *domain.ProviderError.
type TransitProvider interface {
	LiveDepartures(ctx context.Context, origin, destination string) ([]domain.Departure, error)
}

// Assistant composes a free-text answer for a prompt. Implementations poll a
// bounded number of times and return domain.ErrAssistantTimeout after that.
type Assistant interface {
	Compose(ctx context.Context, prompt string) (string, error)
}

// Handler is a domain service reached through the dispatcher.
type Handler interface {
	Domain() domain.Domain
	Handle(ctx context.Context, msg domain.Message) (domain.Intent, domain.Result)
	Format(result domain.Result) string
}
