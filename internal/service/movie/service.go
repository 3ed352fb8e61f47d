package movie

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
	"github.com/seu-repo/sms-assistant/internal/service/records"
	"github.com/seu-repo/sms-assistant/internal/service/slots"
)

// maxResults is how many titles a reply carries.
const maxResults = 5

var (
	// WatchedSchema names the watched table. Recommendations are kept in the
	// same table with a recommended date instead of a rating.
	WatchedSchema = records.Schema{
		Primary: records.Convention{
			"title":       "Title",
			"date":        "Date Watched",
			"rating":      "User Rating",
			"recommended": "Date Recommended",
		},
		Alternate: records.Convention{
			"title":       "Name",
			"date":        "Date",
			"rating":      "Rating",
			"recommended": "Date",
		},
	}

	FavoritesSchema = records.Schema{
		Primary: records.Convention{
			"tmdb_id":  "TMDB_ID",
			"title":    "Title",
			"genres":   "Genres",
			"director": "Director",
		},
		Optional: []string{"genres", "director"},
	}
)

// Selection is the payload of every action that returns titles.
type Selection struct {
	Category string         `json:"category"`
	Movies   []domain.Movie `json:"movies"`
}

// Options carries the capabilities decided at startup.
type Options struct {
	// ContentAvailable is false when no content provider key is configured.
	ContentAvailable   bool
	WatchedAvailable   bool
	FavoritesAvailable bool
	ImageBaseURL       string
	Now                func() time.Time
}

type Handler struct {
	content   ports.ContentProvider
	watched   *records.Table
	favorites *records.Table
	events    ports.MessageQueue
	opts      Options
	log       *zap.Logger
}

// NewHandler creates a movie handler. watched and favorites may be nil when
// the tables are unavailable; events may be nil, in which case seen titles are
// written from a goroutine.
func NewHandler(
	content ports.ContentProvider,
	watched ports.RecordTable,
	favorites ports.RecordTable,
	events ports.MessageQueue,
	opts Options,
	log *zap.Logger,
) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := &Handler{
		content: content,
		events:  events,
		opts:    opts,
		log:     log,
	}
	if opts.WatchedAvailable && watched != nil {
		h.watched = records.NewTable(watched, WatchedSchema, log)
	}
	if opts.FavoritesAvailable && favorites != nil {
		h.favorites = records.NewTable(favorites, FavoritesSchema, log)
	}
	return h
}

func (h *Handler) Domain() domain.Domain { return domain.DomainMovie }

// Handle parses the message and runs the resulting action.
func (h *Handler) Handle(ctx context.Context, msg domain.Message) (domain.Intent, domain.Result) {
	intent := Parse(msg.Text)
	h.log.Debug("Parsed movie intent", zap.String("action", string(intent.Action)))
	return intent.Generic(), h.Execute(ctx, intent)
}

// Execute runs a parsed intent.
func (h *Handler) Execute(ctx context.Context, intent Intent) domain.Result {
	if !h.opts.ContentAvailable || h.content == nil {
		return domain.Fail(domain.ErrorConfigMissing, "Movie recommendations not available - TMDB API key not configured")
	}

	switch intent.Action {
	case ActionGenre:
		return h.byGenre(ctx, intent.Genre)
	case ActionSearch:
		return h.search(ctx, intent.Query)
	case ActionRecommend:
		return h.recommend(ctx, intent)
	case ActionAddFavorite:
		return h.addFavorite(ctx, intent.Title)
	case ActionRate:
		if intent.Title == "" || !intent.HasRating {
			return domain.Fail(domain.ErrorParse, "Please specify a movie title and rating")
		}
		return h.rate(ctx, intent.Title, intent.Rating)
	default:
		return h.popular(ctx)
	}
}

func (h *Handler) popular(ctx context.Context) domain.Result {
	movies, err := h.content.Popular(ctx)
	if err != nil {
		h.log.Error("Error fetching popular movies", zap.Error(err))
		return domain.Fail(domain.KindOf(err), fmt.Sprintf("Error fetching popular movies: %v", err))
	}
	return domain.OK(Selection{Category: "Popular Movies", Movies: top(movies)}, "")
}

func (h *Handler) byGenre(ctx context.Context, genre string) domain.Result {
	id, ok := domain.GenreID(genre)
	if !ok {
		keys := domain.GenreKeys()
		return domain.Fail(domain.ErrorParse, fmt.Sprintf("Unknown genre: %s. Try one of: %s...", genre, strings.Join(keys[:5], ", ")))
	}

	movies, err := h.content.DiscoverByGenre(ctx, []int{id})
	if err != nil {
		h.log.Error("Error fetching movies by genre", zap.String("genre", genre), zap.Error(err))
		return domain.Fail(domain.KindOf(err), fmt.Sprintf("Error fetching movies by genre: %v", err))
	}
	// An empty genre listing is reported as a failure, unlike an empty search.
	if len(movies) == 0 {
		return domain.Fail(domain.ErrorNotFound, fmt.Sprintf("No %s movies found", genre))
	}
	return domain.OK(Selection{Category: slots.TitleCase(genre) + " Movies", Movies: top(movies)}, "")
}

func (h *Handler) search(ctx context.Context, query string) domain.Result {
	movies, err := h.content.SearchByTitle(ctx, query)
	if err != nil {
		h.log.Error("Error searching for movies", zap.String("query", query), zap.Error(err))
		return domain.Fail(domain.KindOf(err), fmt.Sprintf("Error searching for movies: %v", err))
	}
	return domain.OK(Selection{Category: fmt.Sprintf("Search Results for '%s'", query), Movies: top(movies)}, "")
}

func (h *Handler) rate(ctx context.Context, title string, rating float64) domain.Result {
	if h.watched == nil {
		return domain.Fail(domain.ErrorConfigMissing, "Record store is not available for tracking movie ratings")
	}

	movie, res, ok := h.lookup(ctx, title)
	if !ok {
		return res
	}

	_, err := h.watched.Create(ctx, map[string]interface{}{
		"title":  movie.Title,
		"date":   h.opts.Now().Format("2006-01-02"),
		"rating": rating,
	})
	if err != nil {
		h.log.Error("Error rating movie", zap.String("title", movie.Title), zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error rating movie: %v", err))
	}

	h.log.Info("Added movie to watched list", zap.String("title", movie.Title), zap.Float64("rating", rating))
	return domain.Info(fmt.Sprintf("Rated '%s' as %s/5", movie.Title, formatScore(rating)))
}

func (h *Handler) addFavorite(ctx context.Context, title string) domain.Result {
	if title == "" {
		return domain.Fail(domain.ErrorParse, "Please specify a movie title to add to favorites")
	}
	if h.favorites == nil {
		if h.watched == nil {
			return domain.Fail(domain.ErrorConfigMissing, "Record store is not available for tracking favorite movies")
		}
		// Without a favorites table a favorite is kept as a top rating.
		telemetry.FallbackSteps.WithLabelValues("add_favorite", "watched_rating").Inc()
		h.log.Info("Favorites table not available, adding as highly rated movie", zap.String("title", title))
		return h.rate(ctx, title, slots.DefaultRatingScale)
	}

	movie, res, ok := h.lookup(ctx, title)
	if !ok {
		return res
	}
	movieID := strconv.Itoa(movie.ID)

	existing, err := h.favorites.Filter(ctx, func(rec domain.Record) bool {
		return recordID(h.favorites, rec) == movieID
	})
	if err != nil {
		h.log.Error("Error checking favorites", zap.Error(err))
	}
	if len(existing) > 0 {
		return domain.Info(fmt.Sprintf("'%s' is already in your favorites", movie.Title))
	}

	values := map[string]interface{}{
		"tmdb_id": movieID,
		"title":   movie.Title,
		"genres":  strings.Join(domain.GenreNamesFor(movie.GenreIDs), ", "),
	}
	if director := h.director(ctx, movie.ID); director != "" {
		values["director"] = director
	}

	if _, err := h.favorites.Create(ctx, values); err != nil {
		h.log.Error("Error adding movie to favorites", zap.String("title", movie.Title), zap.Error(err))
		return domain.Fail(domain.ErrorProvider, fmt.Sprintf("Error adding movie to favorites: %v", err))
	}

	h.log.Info("Added movie to favorites", zap.String("title", movie.Title))
	return domain.Info(fmt.Sprintf("Added '%s' to your favorites", movie.Title))
}

// lookup resolves a title to the first search hit. When ok is false the
// returned result explains why.
func (h *Handler) lookup(ctx context.Context, title string) (domain.Movie, domain.Result, bool) {
	movies, err := h.content.SearchByTitle(ctx, title)
	if err != nil {
		h.log.Error("Error searching for movie", zap.String("title", title), zap.Error(err))
	}
	if err != nil || len(movies) == 0 {
		return domain.Movie{}, domain.Fail(domain.ErrorNotFound, fmt.Sprintf("Could not find movie '%s' in the database", title)), false
	}
	return movies[0], domain.Result{}, true
}

// director returns the comma-joined directors, or "" when credits are unavailable.
func (h *Handler) director(ctx context.Context, movieID int) string {
	crew, err := h.content.Credits(ctx, movieID)
	if err != nil {
		h.log.Warn("Error getting movie director", zap.Int("movie_id", movieID), zap.Error(err))
		return ""
	}
	var names []string
	for _, c := range crew {
		if c.Job == "Director" {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}

func recordID(t *records.Table, rec domain.Record) string {
	if s := t.String(rec, "tmdb_id"); s != "" {
		return s
	}
	if f, ok := t.Float(rec, "tmdb_id"); ok {
		return strconv.Itoa(int(f))
	}
	return ""
}

func top(movies []domain.Movie) []domain.Movie {
	if len(movies) > maxResults {
		return movies[:maxResults]
	}
	return movies
}

// formatScore prints whole numbers with one decimal, like "4.0".
func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
