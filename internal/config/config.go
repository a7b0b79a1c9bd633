// Package config resolves runtime settings for the todo client and dev server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// AppName is the directory name used under the XDG base dirs.
	AppName = "todo"

	// DefaultBaseURL is used when no base URL is configured anywhere.
	DefaultBaseURL = "http://localhost:3000/todo"

	// ConfigFile is the TOML file name looked up in the config dir.
	ConfigFile = "config.toml"
)

// Config aggregates all runtime settings.
type Config struct {
	BaseURL string `toml:"base_url"`
	Font    string `toml:"font"`
	// RequestTimeout is a Go duration string; empty or "0" means no timeout.
	RequestTimeout string       `toml:"request_timeout"`
	PrefsPath      string       `toml:"prefs_path"`
	Log            LogConfig    `toml:"log"`
	Server         ServerConfig `toml:"server"`

	// File is the config file that was loaded, if any.
	File string `toml:"-"`
}

type LogConfig struct {
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"`
	Path     string `toml:"path"`
}

type ServerConfig struct {
	Addr     string `toml:"addr"`
	BasePath string `toml:"base_path"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Font:      "inter",
		PrefsPath: filepath.Join(dataDir(), "prefs.db"),
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Path:     filepath.Join(stateDir(), "todo.log"),
		},
		Server: ServerConfig{
			Addr:     ":3000",
			BasePath: "/todo",
		},
	}
}

// Load resolves configuration in priority order:
// 1. Defaults
// 2. Config file (explicit path, or config.toml in the config dir when present)
// 3. .env file and environment variables
// Flags are applied afterwards by the caller.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		candidate := filepath.Join(ConfigDir(), ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		if _, err := toml.DecodeFile(expandPath(file), cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
		cfg.File = file
	}

	_ = godotenv.Load(".env")
	loadFromEnv(cfg)

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	// NEXT_PUBLIC_BACKEND_BASE_URL is what existing deployments of the web client export.
	cfg.BaseURL = getString("NEXT_PUBLIC_BACKEND_BASE_URL", cfg.BaseURL)
	cfg.BaseURL = getString("TODO_API_BASE_URL", cfg.BaseURL)
	cfg.Font = getString("TODO_FONT", cfg.Font)
	cfg.RequestTimeout = getString("TODO_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.PrefsPath = getString("TODO_PREFS_PATH", cfg.PrefsPath)
	cfg.Log.Level = getString("TODO_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Encoding = getString("TODO_LOG_ENCODING", cfg.Log.Encoding)
	cfg.Log.Path = getString("TODO_LOG_PATH", cfg.Log.Path)
	cfg.Server.Addr = getString("TODO_SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.BasePath = getString("TODO_SERVER_BASE_PATH", cfg.Server.BasePath)
}

// Finalize normalizes paths and validates values. It is safe to call again
// after flags have been applied.
func (c *Config) Finalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base url %q: missing host", c.BaseURL)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	if c.Log.Path != "-" {
		c.Log.Path = expandPath(c.Log.Path)
	}
	c.PrefsPath = expandPath(c.PrefsPath)

	bp := strings.TrimSpace(c.Server.BasePath)
	if bp == "" || bp == "/" {
		return errors.New("server base path must not be empty")
	}
	if !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	c.Server.BasePath = strings.TrimRight(bp, "/")
	return nil
}

// Timeout parses RequestTimeout. Bare integers are seconds.
func (c *Config) Timeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.RequestTimeout)
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("invalid request timeout %q: must not be negative", raw)
		}
		return d, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid request timeout %q", raw)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// ConfigDir returns $XDG_CONFIG_HOME/todo or ~/.config/todo.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func dataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func stateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, fallback, AppName)
}

// expandPath expands ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
