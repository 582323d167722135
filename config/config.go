package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Conversation persistence backends.
const (
	ContextBackendMemory = "memory"
	ContextBackendRedis  = "redis"
)

// Event log backends.
const (
	EventLogBackendMemory = "memory"
	EventLogBackendSQL    = "sql"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Pipeline
	Conversation ConversationConfig
	Redis        RedisConfig
	EventLog     EventLogConfig
	Webhook      WebhookConfig
	Attribution  AttributionConfig
	Commerce     CommerceConfig

	// Observability
	Metrics MetricsConfig
	Tracing TracingConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	InternalKey     string // protects /api/v1 when set
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type ConversationConfig struct {
	Backend       string
	TTL           time.Duration
	MaxTurns      int // exchanges kept in the window
	ShardCount    int
	SweepInterval time.Duration
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type EventLogConfig struct {
	Backend      string
	DatabaseURL  string // postgres://... or sqlite:file:...
	MaxOpenConns int
	MaxIdleConns int
}

type WebhookConfig struct {
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
	PublicBaseURL   string
}

type AttributionConfig struct {
	SourceMarker string
}

type CommerceConfig struct {
	StoreDomain     string
	APIVersion      string
	StorefrontToken string
	ClientID        string
	ClientSecret    string
	TokenURL        string
	Scopes          []string
	Timeout         time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type TracingConfig struct {
	Enabled        bool
	Stdout         bool
	ServiceVersion string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.InternalKey = viper.GetString("http_server.internal_key")
	if key := viper.GetString("internal_api_key"); key != "" {
		cfg.HTTPServer.InternalKey = key
	}
	cfg.HTTPServer.ReadTimeout = viper.GetDuration("http_server.read_timeout")
	cfg.HTTPServer.WriteTimeout = viper.GetDuration("http_server.write_timeout")
	cfg.HTTPServer.ShutdownTimeout = viper.GetDuration("http_server.shutdown_timeout")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Context Store
	cfg.Conversation.Backend = viper.GetString("conversation.backend")
	cfg.Conversation.TTL = viper.GetDuration("conversation.ttl")
	cfg.Conversation.MaxTurns = viper.GetInt("conversation.max_turns")
	cfg.Conversation.ShardCount = viper.GetInt("conversation.shard_count")
	cfg.Conversation.SweepInterval = viper.GetDuration("conversation.sweep_interval")

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = viper.GetString("redis.password")
	if pw := viper.GetString("redis_password"); pw != "" {
		cfg.Redis.Password = pw
	}
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.KeyPrefix = viper.GetString("redis.key_prefix")

	// Event Log
	cfg.EventLog.Backend = viper.GetString("event_log.backend")
	cfg.EventLog.DatabaseURL = viper.GetString("event_log.database_url")
	if dbURL := viper.GetString("database_url"); dbURL != "" {
		cfg.EventLog.DatabaseURL = dbURL
	}
	cfg.EventLog.MaxOpenConns = viper.GetInt("event_log.max_open_conns")
	cfg.EventLog.MaxIdleConns = viper.GetInt("event_log.max_idle_conns")

	// Webhooks
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.PublicBaseURL = viper.GetString("webhook.public_base_url")
	cfg.Webhook.AllowedIPs = splitList(viper.GetString("webhook.allowed_ips"))

	cfg.Attribution.SourceMarker = viper.GetString("attribution.source_marker")

	// Commerce backend
	cfg.Commerce.StoreDomain = viper.GetString("commerce.store_domain")
	cfg.Commerce.APIVersion = viper.GetString("commerce.api_version")
	cfg.Commerce.StorefrontToken = viper.GetString("commerce.storefront_token")
	if token := viper.GetString("commerce_storefront_token"); token != "" {
		cfg.Commerce.StorefrontToken = token
	}
	cfg.Commerce.ClientID = viper.GetString("commerce.client_id")
	cfg.Commerce.ClientSecret = viper.GetString("commerce.client_secret")
	if secret := viper.GetString("commerce_client_secret"); secret != "" {
		cfg.Commerce.ClientSecret = secret
	}
	cfg.Commerce.TokenURL = viper.GetString("commerce.token_url")
	cfg.Commerce.Scopes = splitList(viper.GetString("commerce.scopes"))
	cfg.Commerce.Timeout = viper.GetDuration("commerce.timeout")

	// Observability
	cfg.Metrics.Enabled = viper.GetBool("metrics.enabled")
	cfg.Tracing.Enabled = viper.GetBool("tracing.enabled")
	cfg.Tracing.Stdout = viper.GetBool("tracing.stdout")
	cfg.Tracing.ServiceVersion = viper.GetString("tracing.service_version")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.read_timeout", "15s")
	viper.SetDefault("http_server.write_timeout", "30s")
	viper.SetDefault("http_server.shutdown_timeout", "10s")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("conversation.backend", ContextBackendMemory)
	viper.SetDefault("conversation.ttl", "2h")
	viper.SetDefault("conversation.max_turns", 5)
	viper.SetDefault("conversation.shard_count", 32)
	viper.SetDefault("conversation.sweep_interval", "5m")
	viper.SetDefault("redis.addr", "localhost:6379")

	viper.SetDefault("event_log.backend", EventLogBackendMemory)
	viper.SetDefault("event_log.max_open_conns", 10)
	viper.SetDefault("event_log.max_idle_conns", 5)

	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("attribution.source_marker", "behold_whatsapp_agent")
	viper.SetDefault("commerce.api_version", "2024-10")
	viper.SetDefault("commerce.timeout", "15s")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.service_version", "1.0.0")
}

// validate rejects combinations the service cannot start with.
func (cfg *Config) validate() error {
	switch cfg.Conversation.Backend {
	case ContextBackendMemory:
	case ContextBackendRedis:
		if cfg.Redis.Addr == "" {
			return errors.New("conversation.backend=redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown conversation.backend %q", cfg.Conversation.Backend)
	}
	if cfg.Conversation.TTL <= 0 {
		return errors.New("conversation.ttl must be positive")
	}
	if cfg.Conversation.MaxTurns <= 0 {
		return errors.New("conversation.max_turns must be positive")
	}

	switch cfg.EventLog.Backend {
	case EventLogBackendMemory:
	case EventLogBackendSQL:
		if cfg.EventLog.DatabaseURL == "" {
			return errors.New("event_log.backend=sql requires event_log.database_url")
		}
	default:
		return fmt.Errorf("unknown event_log.backend %q", cfg.EventLog.Backend)
	}

	if cfg.Webhook.RateLimitPerMin < 0 {
		return errors.New("webhook.rate_limit_per_min must not be negative")
	}
	return nil
}

// splitList splits a comma separated value, since env vars cannot carry arrays.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
