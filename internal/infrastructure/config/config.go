package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Chat      ChatConfig      `yaml:"chat"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Logging   LogConfig       `yaml:"logging"`
}

// ServerConfig locates the backend.
type ServerConfig struct {
	URL    string `envconfig:"ULTRA_URL" default:"http://localhost:8000" yaml:"url"`
	WSPath string `envconfig:"ULTRA_WS_PATH" default:"/ws/chat" yaml:"ws_path"`
}

// ChatConfig holds per-turn defaults.
type ChatConfig struct {
	DefaultModel string `envconfig:"ULTRA_MODEL" default:"llama-3.1-70b-versatile" yaml:"default_model"`
	UseAgent     bool   `envconfig:"ULTRA_USE_AGENT" default:"true" yaml:"use_agent"`
}

// ReconnectConfig controls transport recovery. The delay is fixed:
// attempts are unbounded with no backoff growth.
type ReconnectConfig struct {
	Delay time.Duration `envconfig:"ULTRA_RECONNECT_DELAY" default:"3s" yaml:"delay"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"ULTRA_LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"ULTRA_LOG_DEV" default:"false" yaml:"development"`
	File        string `envconfig:"ULTRA_LOG_FILE" yaml:"file"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment, then overlays
// values set in the YAML file at path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:    "http://localhost:8000",
			WSPath: "/ws/chat",
		},
		Chat: ChatConfig{
			DefaultModel: "llama-3.1-70b-versatile",
			UseAgent:     true,
		},
		Reconnect: ReconnectConfig{
			Delay: 3 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
