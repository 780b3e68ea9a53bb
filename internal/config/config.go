package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Messages MessagesConfig
	Views    ViewsConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Events   EventsConfig
	LogLevel string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MessagesConfig struct {
	Prefix    string
	IDPolicy  string
	MaxLength int
}

type ViewsConfig struct {
	Prefix string
	Window time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type EventsConfig struct {
	Channel string
}

// Id policies understood by the message store.
const (
	IDPolicySequence = "sequence"
	IDPolicyLength   = "length"
)

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MESSAGES_PREFIX", "/messages")
	v.SetDefault("MESSAGES_ID_POLICY", IDPolicySequence)
	v.SetDefault("MESSAGES_MAX_LENGTH", 280)
	v.SetDefault("VIEWS_PREFIX", "/views")
	v.SetDefault("VIEWS_WINDOW_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EVENTS_CHANNEL", "dayboard:events")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Messages: MessagesConfig{
			Prefix:    v.GetString("MESSAGES_PREFIX"),
			IDPolicy:  strings.ToLower(strings.TrimSpace(v.GetString("MESSAGES_ID_POLICY"))),
			MaxLength: v.GetInt("MESSAGES_MAX_LENGTH"),
		},
		Views: ViewsConfig{
			Prefix: v.GetString("VIEWS_PREFIX"),
			Window: time.Duration(v.GetInt("VIEWS_WINDOW_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Events: EventsConfig{
			Channel: v.GetString("EVENTS_CHANNEL"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Messages.IDPolicy {
	case IDPolicySequence, IDPolicyLength:
	default:
		return fmt.Errorf("MESSAGES_ID_POLICY must be %q or %q, got %q", IDPolicySequence, IDPolicyLength, c.Messages.IDPolicy)
	}
	if c.Messages.MaxLength <= 0 {
		return fmt.Errorf("MESSAGES_MAX_LENGTH must be positive, got %d", c.Messages.MaxLength)
	}
	if c.Views.Window <= 0 {
		return fmt.Errorf("VIEWS_WINDOW_HOURS must be positive, got %s", c.Views.Window)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
