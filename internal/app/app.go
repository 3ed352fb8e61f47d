// Package app wires configuration, adapters and handlers into a running assistant.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/sms-assistant/internal/adapter/ai/anthropic"
	"github.com/seu-repo/sms-assistant/internal/adapter/ai/openai"
	"github.com/seu-repo/sms-assistant/internal/adapter/cache"
	"github.com/seu-repo/sms-assistant/internal/adapter/external/openweather"
	"github.com/seu-repo/sms-assistant/internal/adapter/external/tmdb"
	"github.com/seu-repo/sms-assistant/internal/adapter/external/transportapi"
	"github.com/seu-repo/sms-assistant/internal/adapter/queue"
	"github.com/seu-repo/sms-assistant/internal/adapter/storage/airtable"
	"github.com/seu-repo/sms-assistant/internal/adapter/storage/memory"
	"github.com/seu-repo/sms-assistant/internal/adapter/storage/postgres"
	"github.com/seu-repo/sms-assistant/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/sms-assistant/internal/ports"
	"github.com/seu-repo/sms-assistant/internal/service/conversation"
	"github.com/seu-repo/sms-assistant/internal/service/dispatcher"
	"github.com/seu-repo/sms-assistant/internal/service/health"
	"github.com/seu-repo/sms-assistant/internal/service/movie"
	"github.com/seu-repo/sms-assistant/internal/service/shift"
	"github.com/seu-repo/sms-assistant/internal/service/transport"
	"github.com/seu-repo/sms-assistant/internal/service/weather"
	"github.com/seu-repo/sms-assistant/pkg/config"
)

// App is the assembled assistant.
type App struct {
	Config       *config.Config
	Capabilities Capabilities
	Dispatcher   *dispatcher.Dispatcher
	Health       *health.Service
	Breakers     *circuitbreaker.Manager

	closers []func() error
	log     *zap.Logger
}

// Build connects every configured dependency. Optional dependencies that are
// missing or unreachable are logged and switched off; only a configured
// database that cannot be reached is fatal.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Breakers: circuitbreaker.NewManager(circuitbreaker.Settings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         cfg.CircuitBreaker.Interval,
			Timeout:          cfg.CircuitBreaker.Timeout,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		}, log),
		log: log,
	}

	c := a.buildCache()
	events, err := a.buildQueue()
	if err != nil {
		a.Close()
		return nil, err
	}

	db, err := a.buildDatabase()
	if err != nil {
		a.Close()
		return nil, err
	}

	var repo ports.ConversationRepository
	if db != nil {
		repo = postgres.NewConversationRepository(db, log)
		a.Capabilities.Conversations = true
	} else {
		log.Info("No database configured, keeping conversation history in memory")
		repo = memory.NewConversations()
	}
	history := conversation.NewService(repo, c, events, conversation.Options{PreferencesTTL: cfg.Cache.PreferencesTTL}, log)
	if err := history.Subscribe(events); err != nil {
		a.Close()
		return nil, fmt.Errorf("subscribe conversation worker: %w", err)
	}

	shifts, watched, favorites := a.buildTables(ctx)

	var content ports.ContentProvider
	if client, err := tmdb.NewClient(cfg.Providers.TMDB.APIKey, cfg.Providers.TMDB.BaseURL, a.httpClient("tmdb"), log); err == nil {
		content = tmdb.NewCached(client, c, cfg.Cache.ProviderTTL, log)
		a.Capabilities.Content = true
	} else {
		log.Warn("Movie recommendations disabled", zap.Error(err))
	}

	var forecasts ports.WeatherProvider
	if client, err := openweather.NewClient(cfg.Providers.Weather.APIKey, cfg.Providers.Weather.BaseURL, a.httpClient("openweather"), log); err == nil {
		forecasts = client
		a.Capabilities.Weather = true
	} else {
		log.Warn("Weather disabled", zap.Error(err))
	}

	var trains ports.TransitProvider
	if client, err := transportapi.NewClient(cfg.Providers.Transport.AppID, cfg.Providers.Transport.AppKey, cfg.Providers.Transport.BaseURL, a.httpClient("transportapi"), log); err == nil {
		trains = client
	} else if cfg.Transport.Live {
		log.Warn("Live trains requested but TransportAPI is not configured", zap.Error(err))
	}
	a.Capabilities.LiveTransport = cfg.Transport.Live && trains != nil

	assistant := a.buildAssistant()
	a.Capabilities.Assistant = assistant != nil

	movies := movie.NewHandler(content, watched, favorites, events, movie.Options{
		ContentAvailable:   a.Capabilities.Content,
		WatchedAvailable:   a.Capabilities.Watched,
		FavoritesAvailable: a.Capabilities.Favorites,
		ImageBaseURL:       cfg.Providers.TMDB.ImageBaseURL,
	}, log)
	if err := movies.Subscribe(events); err != nil {
		a.Close()
		return nil, fmt.Errorf("subscribe movie worker: %w", err)
	}

	handlers := []ports.Handler{
		shift.NewHandler(shifts, shift.Options{StoreAvailable: a.Capabilities.Shifts}, log),
		movies,
		transport.NewHandler(trains, transport.Options{
			Live:               cfg.Transport.Live,
			HomeStation:        cfg.Transport.HomeStation,
			DefaultDestination: cfg.Transport.DefaultDest,
			FallbackCode:       cfg.Transport.FallbackCode,
		}, log),
		weather.NewHandler(forecasts, weather.Options{Available: a.Capabilities.Weather}, log),
	}
	a.Dispatcher = dispatcher.New(handlers, assistant, history, log)

	a.Health = health.NewService(health.Config{
		Version:      cfg.App.Version,
		Capabilities: a.Capabilities.Map(),
	}, log)
	a.registerProbes(db, c)

	log.Info("Assistant ready", zap.Any("capabilities", a.Capabilities))
	return a, nil
}

// Close releases every connection opened by Build, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildCache() ports.Cache {
	if a.Config.Redis.URL != "" {
		c, err := cache.NewRedisCache(a.Config.Redis.URL, a.log)
		if err == nil {
			a.closers = append(a.closers, c.Close)
			return c
		}
		a.log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
	}
	c := cache.NewLocalCache(time.Minute, a.log)
	a.closers = append(a.closers, c.Close)
	return c
}

func (a *App) buildQueue() (ports.MessageQueue, error) {
	var (
		q   ports.MessageQueue
		err error
	)
	switch a.Config.Queue.Driver {
	case "nats":
		q, err = queue.NewNATSQueue(a.Config.Queue.NATSURL, a.log)
	case "rabbitmq":
		q, err = queue.NewRabbitMQQueue(a.Config.Queue.RabbitMQURL, a.Config.Queue.Exchange, a.log)
	case "", "local":
		q = queue.NewLocalQueue(a.log)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", a.Config.Queue.Driver)
	}
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, q.Close)
	return q, nil
}

func (a *App) buildDatabase() (*gorm.DB, error) {
	if a.Config.Database.URL == "" {
		return nil, nil
	}
	db, err := postgres.NewConnection(a.Config.Database.URL, postgres.Options{
		MaxOpenConns:    a.Config.Database.MaxOpenConns,
		MaxIdleConns:    a.Config.Database.MaxIdleConns,
		ConnMaxLifetime: a.Config.Database.ConnMaxLifetime,
		LogQueries:      a.Config.Database.LogQueries,
	}, a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return postgres.Close(db) })

	if a.Config.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// buildTables opens the record tables and probes each one.
func (a *App) buildTables(ctx context.Context) (shifts, watched, favorites ports.RecordTable) {
	var store ports.RecordStore
	switch {
	case a.Config.Store.Memory:
		a.log.Info("Using in-memory record store")
		store = memory.NewStore(a.log)
	default:
		s, err := airtable.NewStore(a.Config.Store.APIKey, a.Config.Store.BaseID, a.Config.Store.BaseURL, a.httpClient("airtable"), a.log)
		if err != nil {
			a.log.Warn("Record store not configured, using simulated data", zap.Error(err))
			return nil, nil, nil
		}
		store = s
	}
	a.Capabilities.Store = true

	shifts, a.Capabilities.Shifts = probeTable(ctx, store, a.Config.Store.ShiftsTable, a.log)
	watched, a.Capabilities.Watched = probeTable(ctx, store, a.Config.Store.WatchedTable, a.log)
	favorites, a.Capabilities.Favorites = probeTable(ctx, store, a.Config.Store.FavoritesTable, a.log)
	return shifts, watched, favorites
}

// buildAssistant returns nil when the selected backend is not configured.
func (a *App) buildAssistant() ports.Assistant {
	cfg := a.Config.Assistant
	switch cfg.Provider {
	case "anthropic":
		client, err := anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.Anthropic.APIKey,
			Model:   cfg.Anthropic.Model,
			BaseURL: cfg.Anthropic.BaseURL,
			System:  cfg.Anthropic.System,
		}, a.httpClient("anthropic"), a.log)
		if err != nil {
			a.log.Warn("Assistant disabled", zap.String("provider", cfg.Provider), zap.Error(err))
			return nil
		}
		return client
	default:
		client, err := openai.NewClient(openai.Config{
			APIKey:       cfg.APIKey,
			AssistantID:  cfg.AssistantID,
			BaseURL:      cfg.BaseURL,
			MaxPolls:     cfg.MaxPolls,
			PollInterval: cfg.PollInterval,
		}, a.httpClient("openai"), a.log)
		if err != nil {
			a.log.Warn("Assistant disabled", zap.String("provider", "openai"), zap.Error(err))
			return nil
		}
		return client
	}
}

func (a *App) httpClient(name string) *circuitbreaker.HTTPClient {
	timeout := a.Config.CircuitBreaker.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return circuitbreaker.NewHTTPClient(name, &http.Client{Timeout: timeout}, a.Breakers.Get(name), a.log)
}

func (a *App) registerProbes(db *gorm.DB, c ports.Cache) {
	if db != nil {
		a.Health.Register("database", health.Probe{
			Check:    func(ctx context.Context) error { return postgres.Ping(ctx, db) },
			Critical: true,
		})
	}
	a.Health.Register("cache", health.Probe{
		Check: func(ctx context.Context) error { return c.Ping() },
	})
}
