package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/spachava753/imsgwatch/internal/logging"
	"github.com/spachava753/imsgwatch/macos/messages"
	"github.com/spachava753/imsgwatch/watch"
)

// MinPollInterval is the shortest accepted wait between polls. Bare TOML
// integers decode as nanoseconds and land below it.
const MinPollInterval = 10 * time.Millisecond

// Config holds all configuration for imsgwatch.
type Config struct {
	Database     string        `toml:"database"`
	PollInterval time.Duration `toml:"poll_interval"`
	TextLimit    int           `toml:"text_limit"`
	Color        string        `toml:"color"`
	LogLevel     string        `toml:"log_level"`
}

func defaults() Config {
	// An unresolvable home directory leaves Database empty; Validate reports it.
	db, _ := messages.DefaultPath()
	return Config{
		Database:     db,
		PollInterval: watch.DefaultInterval,
		TextLimit:    watch.DefaultTextLimit,
		Color:        "auto",
		LogLevel:     logging.LevelInfo,
	}
}

// Load reads configuration from the TOML config file (if it exists) and
// applies environment variable overrides. Env vars always win.
//
// Config file resolution: path argument → IMSGWATCH_CONFIG env var →
// ~/.config/imsgwatch/config.toml → skip. A file named explicitly by the
// argument or the env var must exist.
func Load(path string) (*Config, error) {
	cfg := defaults()

	path, required := configPath(path)
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: decoding %s failed: %w", path, err)
			}
		case required || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config: reading %s failed: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.Database = expandHome(cfg.Database)
	return &cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("config: database path is required")
	}
	if c.PollInterval < MinPollInterval {
		return fmt.Errorf("config: poll_interval must be at least %s, got %s (use a duration such as \"2s\")", MinPollInterval, c.PollInterval)
	}
	if c.TextLimit <= 0 {
		return fmt.Errorf("config: text_limit must be positive, got %d", c.TextLimit)
	}
	switch strings.ToLower(strings.TrimSpace(c.Color)) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func configPath(explicit string) (string, bool) {
	if explicit != "" {
		return expandHome(explicit), true
	}
	if p := os.Getenv("IMSGWATCH_CONFIG"); p != "" {
		return expandHome(p), true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "imsgwatch", "config.toml"), false
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("IMSGWATCH_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("IMSGWATCH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: IMSGWATCH_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := os.Getenv("IMSGWATCH_TEXT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: IMSGWATCH_TEXT_LIMIT: %w", err)
		}
		cfg.TextLimit = n
	}
	if v := os.Getenv("IMSGWATCH_COLOR"); v != "" {
		cfg.Color = v
	}
	// https://no-color.org
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.Color = "never"
	}
	if v := os.Getenv("IMSGWATCH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
