package movie

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/sms-assistant/internal/adapter/queue"
	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/observability/telemetry"
	"github.com/seu-repo/sms-assistant/internal/ports"
)

const (
	favoriteWeight   = 2
	watchedWeight    = 1
	likedRating      = 4.0
	maxFavoriteGenre = 3
	genreLookups     = 4
)

// SeenEvent lists titles surfaced to the user so they are not suggested again.
type SeenEvent struct {
	Titles []string `json:"titles"`
	Date   string   `json:"date"`
}

// history is the user's watched and favorites records, loaded once per request.
type history struct {
	watched   []domain.Record
	favorites []domain.Record
}

func (h *Handler) recommend(ctx context.Context, intent Intent) domain.Result {
	if intent.Query == "" {
		return h.personalized(ctx)
	}

	found, err := h.content.SearchByTitle(ctx, intent.Query)
	if err != nil {
		h.log.Warn("Reference title search failed", zap.String("query", intent.Query), zap.Error(err))
	}
	if err != nil || len(found) == 0 {
		telemetry.FallbackSteps.WithLabelValues("recommend", "personalized").Inc()
		return h.personalized(ctx)
	}
	base := found[0]

	recs, err := h.content.Recommendations(ctx, base.ID)
	if err != nil {
		h.log.Warn("Recommendations failed", zap.Int("movie_id", base.ID), zap.Error(err))
		telemetry.FallbackSteps.WithLabelValues("recommend", "similar").Inc()
		return h.similar(ctx, base)
	}

	hist := h.loadHistory(ctx)
	movies := unwatched(recs, h.watchedTitles(hist.watched))
	if len(movies) == 0 {
		telemetry.FallbackSteps.WithLabelValues("recommend", "similar").Inc()
		return h.similar(ctx, base)
	}

	movies = top(movies)
	h.log.Info("Found recommendations", zap.String("base", base.Title), zap.Int("count", len(movies)))
	h.recordSeen(ctx, movies)
	return domain.OK(Selection{Category: fmt.Sprintf("Recommendations based on '%s'", base.Title), Movies: movies}, "")
}

// similar falls back to the unfiltered popular list when the provider has nothing.
func (h *Handler) similar(ctx context.Context, base domain.Movie) domain.Result {
	movies, err := h.content.Similar(ctx, base.ID)
	if err != nil {
		h.log.Warn("Similar titles failed", zap.Int("movie_id", base.ID), zap.Error(err))
	}
	if err != nil || len(movies) == 0 {
		telemetry.FallbackSteps.WithLabelValues("recommend", "popular").Inc()
		return h.popular(ctx)
	}
	return domain.OK(Selection{Category: fmt.Sprintf("Movies similar to '%s'", base.Title), Movies: top(movies)}, "")
}

func (h *Handler) personalized(ctx context.Context) domain.Result {
	hist := h.loadHistory(ctx)
	watched := h.watchedTitles(hist.watched)

	if genres := h.favoriteGenres(ctx, hist); len(genres) > 0 {
		found, err := h.content.DiscoverByGenre(ctx, genres)
		if err != nil {
			h.log.Warn("Discover by favorite genres failed", zap.Ints("genres", genres), zap.Error(err))
		}
		if movies := unwatched(found, watched); len(movies) > 0 {
			movies = top(movies)
			names := domain.GenreNamesFor(genres)
			if len(names) > 2 {
				names = names[:2]
			}
			h.recordSeen(ctx, movies)
			return domain.OK(Selection{
				Category: fmt.Sprintf("Recommended %s Movies For You", strings.Join(names, ", ")),
				Movies:   movies,
			}, "")
		}
	}

	telemetry.FallbackSteps.WithLabelValues("personalized", "popular").Inc()
	popular, err := h.content.Popular(ctx)
	if err != nil {
		h.log.Error("Error fetching popular movies", zap.Error(err))
		return domain.Fail(domain.KindOf(err), fmt.Sprintf("Error fetching popular movies: %v", err))
	}
	movies := top(unwatched(popular, watched))
	h.recordSeen(ctx, movies)
	return domain.OK(Selection{Category: "Popular Movies You Haven't Seen", Movies: movies}, "")
}

// loadHistory reads both tables concurrently. A table that fails to load is
// treated as empty.
func (h *Handler) loadHistory(ctx context.Context) history {
	var hist history
	g, gctx := errgroup.WithContext(ctx)

	if h.watched != nil {
		g.Go(func() error {
			recs, err := h.watched.All(gctx)
			if err != nil {
				h.log.Error("Error loading watched movies", zap.Error(err))
				return nil
			}
			hist.watched = recs
			return nil
		})
	}
	if h.favorites != nil {
		g.Go(func() error {
			recs, err := h.favorites.All(gctx)
			if err != nil {
				h.log.Error("Error loading favorite movies", zap.Error(err))
				return nil
			}
			hist.favorites = recs
			return nil
		})
	}

	_ = g.Wait()
	return hist
}

// favoriteGenres ranks genres by favorites (weight 2) and well rated watched
// titles (weight 1) and returns up to three ids. Watched titles are resolved
// to genres with a live search; ties keep genre table order.
func (h *Handler) favoriteGenres(ctx context.Context, hist history) []int {
	var mu sync.Mutex
	counts := make(map[int]int)

	for _, rec := range hist.favorites {
		for _, name := range strings.Split(h.favorites.String(rec, "genres"), ",") {
			if id, ok := domain.GenreID(name); ok {
				counts[id] += favoriteWeight
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(genreLookups)
	for _, rec := range hist.watched {
		rating, ok := h.watched.Float(rec, "rating")
		title := h.watched.String(rec, "title")
		if !ok || rating < likedRating || title == "" {
			continue
		}
		g.Go(func() error {
			found, err := h.content.SearchByTitle(gctx, title)
			if err != nil || len(found) == 0 {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range found[0].GenreIDs {
				if _, known := domain.GenreName(id); known {
					counts[id] += watchedWeight
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]int, 0, len(counts))
	for _, id := range domain.GenreIDs() {
		if counts[id] > 0 {
			ranked = append(ranked, id)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return counts[ranked[i]] > counts[ranked[j]] })

	if len(ranked) > maxFavoriteGenre {
		ranked = ranked[:maxFavoriteGenre]
	}
	return ranked
}

func (h *Handler) watchedTitles(recs []domain.Record) map[string]bool {
	set := make(map[string]bool, len(recs))
	if h.watched == nil {
		return set
	}
	for _, rec := range recs {
		if t := strings.ToLower(strings.TrimSpace(h.watched.String(rec, "title"))); t != "" {
			set[t] = true
		}
	}
	return set
}

func unwatched(movies []domain.Movie, watched map[string]bool) []domain.Movie {
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if !watched[strings.ToLower(m.Title)] {
			out = append(out, m)
		}
	}
	return out
}

// recordSeen stores surfaced titles in the background. It publishes an event
// when a queue is wired and writes from a goroutine otherwise.
func (h *Handler) recordSeen(ctx context.Context, movies []domain.Movie) {
	if h.watched == nil || len(movies) == 0 {
		return
	}

	evt := SeenEvent{Date: h.opts.Now().Format("2006-01-02")}
	for _, m := range movies {
		evt.Titles = append(evt.Titles, m.Title)
	}

	if h.events == nil {
		go h.saveSeenInBackground(context.WithoutCancel(ctx), evt)
		return
	}

	data, err := queue.Encode(queue.SubjectMovieSeen, evt)
	if err != nil {
		h.log.Error("Error encoding seen event", zap.Error(err))
		return
	}
	if err := h.events.Publish(ctx, queue.SubjectMovieSeen, data); err != nil {
		h.log.Error("Error publishing seen event", zap.Error(err))
		return
	}
	telemetry.QueueEvents.WithLabelValues(queue.SubjectMovieSeen, "published").Inc()
}

// Subscribe registers the worker that stores seen titles.
func (h *Handler) Subscribe(q ports.MessageQueue) error {
	return q.Subscribe(queue.SubjectMovieSeen, func(ctx context.Context, data []byte) error {
		var evt SeenEvent
		if _, err := queue.Decode(data, &evt); err != nil {
			return err
		}
		telemetry.QueueEvents.WithLabelValues(queue.SubjectMovieSeen, "consumed").Inc()
		return h.saveSeen(ctx, evt)
	})
}

// saveSeen writes every title not already in the watched table.
// saveSeenInBackground runs outside any request, so it recovers its own panics.
func (h *Handler) saveSeenInBackground(ctx context.Context, evt SeenEvent) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.HandlerPanics.WithLabelValues(string(domain.DomainMovie)).Inc()
			h.log.Error("Saving recommendations panicked", zap.Any("panic", r))
		}
	}()
	if err := h.saveSeen(ctx, evt); err != nil {
		h.log.Error("Error saving recommendations", zap.Error(err))
	}
}

func (h *Handler) saveSeen(ctx context.Context, evt SeenEvent) error {
	if h.watched == nil {
		return nil
	}

	recs, err := h.watched.All(ctx)
	if err != nil {
		return fmt.Errorf("movie: load watched: %w", err)
	}
	known := h.watchedTitles(recs)

	var firstErr error
	for _, title := range evt.Titles {
		key := strings.ToLower(title)
		if known[key] {
			continue
		}
		_, err := h.watched.Create(ctx, map[string]interface{}{"title": title, "recommended": evt.Date})
		if err != nil {
			h.log.Error("Error saving recommendation", zap.String("title", title), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("movie: save %q: %w", title, err)
			}
			continue
		}
		known[key] = true
		h.log.Debug("Saved recommendation", zap.String("title", title))
	}
	return firstErr
}
