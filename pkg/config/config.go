package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Queue          QueueConfig          `mapstructure:"queue"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Providers      ProvidersConfig      `mapstructure:"providers"`
	Store          StoreConfig          `mapstructure:"store"`
	Assistant      AssistantConfig      `mapstructure:"assistant"`
	Transport      TransportConfig      `mapstructure:"transport"`
	Twilio         TwilioConfig         `mapstructure:"twilio"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	APIKey         string        `mapstructure:"api_key"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// QueueConfig selects the event bus used for conversation and seen events.
// Driver is one of "nats", "rabbitmq" or "local".
type QueueConfig struct {
	Driver      string `mapstructure:"driver"`
	NATSURL     string `mapstructure:"nats_url"`
	RabbitMQURL string `mapstructure:"rabbitmq_url"`
	Exchange    string `mapstructure:"exchange"`
}

type OpenTelemetryConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	ServiceName string       `mapstructure:"service_name"`
	Jaeger      JaegerConfig `mapstructure:"jaeger"`
}

type JaegerConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
}

type CacheConfig struct {
	ProviderTTL    time.Duration `mapstructure:"provider_ttl"`
	PreferencesTTL time.Duration `mapstructure:"preferences_ttl"`
}

type ProvidersConfig struct {
	TMDB      TMDBConfig         `mapstructure:"tmdb"`
	Weather   WeatherConfig      `mapstructure:"weather"`
	Transport TransportAPIConfig `mapstructure:"transport"`
}

type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
}

type WeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type TransportAPIConfig struct {
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
	BaseURL string `mapstructure:"base_url"`
}

// StoreConfig points at the Airtable base holding shifts, movies and conversations.
// Memory selects the in-process store when no base is configured.
type StoreConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseID         string `mapstructure:"base_id"`
	BaseURL        string `mapstructure:"base_url"`
	Memory         bool   `mapstructure:"memory"`
	ShiftsTable    string `mapstructure:"shifts_table"`
	WatchedTable   string `mapstructure:"watched_table"`
	FavoritesTable string `mapstructure:"favorites_table"`
}

// AssistantConfig selects the backend used for general and email messages.
// Provider is "openai" (Assistants API) or "anthropic" (Messages API).
type AssistantConfig struct {
	Provider     string          `mapstructure:"provider"`
	APIKey       string          `mapstructure:"api_key"`
	AssistantID  string          `mapstructure:"assistant_id"`
	BaseURL      string          `mapstructure:"base_url"`
	MaxPolls     int             `mapstructure:"max_polls"`
	PollInterval time.Duration   `mapstructure:"poll_interval"`
	Anthropic    AnthropicConfig `mapstructure:"anthropic"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	System  string `mapstructure:"system"`
}

type TransportConfig struct {
	Live         bool   `mapstructure:"live"`
	HomeStation  string `mapstructure:"home_station"`
	DefaultDest  string `mapstructure:"default_destination"`
	FallbackCode string `mapstructure:"fallback_code"`
}

// TwilioConfig validates inbound webhooks. WebhookURL is the public URL Twilio
// signs; when empty the request URL is used.
type TwilioConfig struct {
	AuthToken  string `mapstructure:"auth_token"`
	WebhookURL string `mapstructure:"webhook_url"`
}
