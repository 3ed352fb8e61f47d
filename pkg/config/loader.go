package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Provider credentials are usually exported without the APP_ prefix
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("queue.nats_url", "NATS_URL", "APP_QUEUE_NATS_URL")
	v.BindEnv("queue.rabbitmq_url", "RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL")
	v.BindEnv("providers.tmdb.api_key", "TMDB_API_KEY")
	v.BindEnv("providers.weather.api_key", "OPENWEATHER_API_KEY")
	v.BindEnv("providers.transport.app_id", "TRANSPORT_API_ID")
	v.BindEnv("providers.transport.app_key", "TRANSPORT_API_KEY")
	v.BindEnv("store.api_key", "AIRTABLE_API_KEY")
	v.BindEnv("store.base_id", "AIRTABLE_BASE_ID")
	v.BindEnv("assistant.api_key", "OPENAI_API_KEY")
	v.BindEnv("assistant.assistant_id", "OPENAI_ASSISTANT_ID")
	v.BindEnv("assistant.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("transport.live", "USE_LIVE_TRAINS")
	v.BindEnv("twilio.auth_token", "TWILIO_AUTH_TOKEN")
	v.BindEnv("twilio.webhook_url", "TWILIO_WEBHOOK_URL")
	v.BindEnv("http.api_key", "API_KEY", "APP_HTTP_API_KEY")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sms-assistant")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("queue.driver", "local")
	v.SetDefault("queue.exchange", "assistant.events")

	v.SetDefault("opentelemetry.service_name", "sms-assistant")

	v.SetDefault("logging.level", "info")

	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", 60*time.Second)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 5)
	v.SetDefault("circuit_breaker.http_timeout", 10*time.Second)

	v.SetDefault("cache.provider_ttl", 10*time.Minute)
	v.SetDefault("cache.preferences_ttl", 24*time.Hour)

	v.SetDefault("providers.tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("providers.tmdb.image_base_url", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("providers.weather.base_url", "http://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("providers.transport.base_url", "https://transportapi.com/v3/uk/train/station")

	v.SetDefault("store.base_url", "https://api.airtable.com/v0")
	v.SetDefault("store.shifts_table", "Shifts")
	v.SetDefault("store.watched_table", "Movies Watched")
	v.SetDefault("store.favorites_table", "Movie Favorites")

	v.SetDefault("assistant.provider", "openai")
	v.SetDefault("assistant.base_url", "https://api.openai.com/v1")
	v.SetDefault("assistant.anthropic.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("assistant.anthropic.system", "You are an SMS assistant. Keep replies short enough for a text message.")
	v.SetDefault("assistant.max_polls", 10)
	v.SetDefault("assistant.poll_interval", time.Second)

	v.SetDefault("transport.home_station", "urmston")
	v.SetDefault("transport.default_destination", "manchester")
	v.SetDefault("transport.fallback_code", "MAN")
}
