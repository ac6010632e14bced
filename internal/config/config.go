package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nahidhasan98/webhook-shunt/internal/errors"
)

// Messaging drivers
const (
	DriverRelay    = "relay"
	DriverWhatsApp = "whatsapp"
)

// Config holds the application configuration. It is built once at
// startup and only read afterwards.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Bot identity and target channel
	Bot BotConfig

	// Messaging transport configuration
	Messaging MessagingConfig

	// URL shortener configuration
	Shortener ShortenerConfig

	// Logging configuration
	Log LogConfig

	// Session store for the whatsapp driver
	Database DatabaseConfig

	// WhatsApp configuration
	WhatsApp WhatsAppConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host        string
	Port        int
	ReadTimeout time.Duration
}

// BotConfig holds the identity the announcements are sent as
type BotConfig struct {
	Email   string
	Token   string
	Channel string
}

// MessagingConfig selects and configures the outbound transport
type MessagingConfig struct {
	Driver  string
	URL     string        // relay endpoint
	Timeout time.Duration // zero means no timeout
}

// ShortenerConfig holds the URL shortening service settings
type ShortenerConfig struct {
	URL     string // empty disables shortening
	Timeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// WhatsAppConfig holds WhatsApp-specific configuration
type WhatsAppConfig struct {
	LogLevel   string
	DeviceName string // name shown in WhatsApp linked devices
}

// Load loads configuration from an optional .env file, an optional YAML
// file named by $CONFIG and the environment, in increasing precedence.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)

	v.SetDefault("messaging.driver", DriverRelay)
	v.SetDefault("messaging.timeout", time.Duration(0))

	v.SetDefault("shortener.url", "https://git.io")
	v.SetDefault("shortener.timeout", time.Duration(0))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:webhook-shunt.db?_foreign_keys=on")

	v.SetDefault("whatsapp.log_level", "INFO")
	v.SetDefault("whatsapp.device_name", "webhook-shunt")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			ReadTimeout: v.GetDuration("server.read_timeout"),
		},
		Bot: BotConfig{
			Email:   v.GetString("bot.email"),
			Token:   v.GetString("bot.token"),
			Channel: v.GetString("bot.channel"),
		},
		Messaging: MessagingConfig{
			Driver:  strings.ToLower(v.GetString("messaging.driver")),
			URL:     v.GetString("messaging.url"),
			Timeout: v.GetDuration("messaging.timeout"),
		},
		Shortener: ShortenerConfig{
			URL:     v.GetString("shortener.url"),
			Timeout: v.GetDuration("shortener.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("db.driver"),
			DSN:    v.GetString("db.dsn"),
		},
		WhatsApp: WhatsAppConfig{
			LogLevel:   v.GetString("whatsapp.log_level"),
			DeviceName: v.GetString("whatsapp.device_name"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.InvalidConfig(fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}

	if c.Bot.Channel == "" {
		return errors.InvalidConfig("bot channel is required")
	}

	if c.Messaging.Timeout < 0 || c.Shortener.Timeout < 0 {
		return errors.InvalidConfig("timeouts must not be negative")
	}

	switch c.Messaging.Driver {
	case DriverRelay:
		if c.Messaging.URL == "" {
			return errors.InvalidConfig("messaging URL is required for the relay driver")
		}
		if c.Bot.Email == "" || c.Bot.Token == "" {
			return errors.InvalidConfig("bot email and token are required for the relay driver")
		}
	case DriverWhatsApp:
		if c.Database.Driver == "" {
			return errors.InvalidConfig("database driver is required")
		}
		if c.Database.DSN == "" {
			return errors.InvalidConfig("database DSN is required")
		}
	default:
		return errors.InvalidConfig(fmt.Sprintf("unknown messaging driver: %q", c.Messaging.Driver))
	}

	return nil
}

// Address returns the server address in the format host:port
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
