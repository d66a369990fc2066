package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings read from larex.yaml
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

type LogConfig struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	SeqURL    string `yaml:"seq_url"`    // empty disables the Seq sink
	AddSource bool   `yaml:"add_source"` // include file:line in records
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:     "info",
			SeqURL:    "",
			AddSource: true,
		},
		Server: ServerConfig{Port: 4545},
	}
}

// Load reads a YAML config file on top of the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return cfg, err
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return cfg, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level
func (c LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Level)
	}
}
