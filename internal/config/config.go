package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Journal JournalConfig `mapstructure:"journal"`
	Session SessionConfig `mapstructure:"session"`
	Lark    LarkConfig    `mapstructure:"lark"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// EngineConfig points at the reimbursement decision engine
type EngineConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UploadConfig holds invoice upload settings
type UploadConfig struct {
	PreviewWidth int `mapstructure:"preview_width"`
}

// JournalConfig holds the local submission journal database settings
type JournalConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SessionConfig controls how long idle portal sessions are kept
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LarkConfig holds Lark review notification configuration
type LarkConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	AppID        string `mapstructure:"app_id"`
	AppSecret    string `mapstructure:"app_secret"`
	ReviewChatID string `mapstructure:"review_chat_id"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. An empty
// configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Engine defaults
	v.SetDefault("engine.base_url", "http://localhost:8000/api/v1")
	v.SetDefault("engine.timeout", 60*time.Second)

	v.SetDefault("upload.preview_width", 800)

	// Journal defaults
	v.SetDefault("journal.path", "data/submissions.db")
	v.SetDefault("journal.max_open_conns", 4)
	v.SetDefault("journal.max_idle_conns", 2)
	v.SetDefault("journal.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.sweep_interval", time.Minute)

	v.SetDefault("lark.enabled", false)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"engine.base_url":     "ENGINE_BASE_URL",
		"journal.path":        "JOURNAL_PATH",
		"lark.enabled":        "LARK_ENABLED",
		"lark.app_id":         "LARK_APP_ID",
		"lark.app_secret":     "LARK_APP_SECRET",
		"lark.review_chat_id": "LARK_REVIEW_CHAT_ID",
		"logger.level":        "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	u, err := url.Parse(c.Engine.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("engine.base_url must be an absolute http(s) URL: %q", c.Engine.BaseURL)
	}
	if c.Engine.Timeout <= 0 {
		return fmt.Errorf("engine.timeout must be positive")
	}

	if c.Upload.PreviewWidth <= 0 {
		return fmt.Errorf("upload.preview_width must be positive")
	}

	if c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive")
	}

	// Lark credentials only matter when notifications are on
	if c.Lark.Enabled {
		if c.Lark.AppID == "" {
			return fmt.Errorf("lark.app_id is required")
		}
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required")
		}
		if c.Lark.ReviewChatID == "" {
			return fmt.Errorf("lark.review_chat_id is required")
		}
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console: %q", c.Logger.Format)
	}

	return nil
}
