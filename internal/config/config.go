package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// apiPrefix is the public path prefix the backend serves under. Deployments
// that front the backend with a reverse proxy rewrite this prefix to the
// upstream origin, so the client only ever sees `/api/v1` paths.
const apiPrefix = "/api/v1"

type Config struct {
	APIBaseURL    string `toml:"api_base_url"`
	DefaultUserID int64  `toml:"default_user_id"`
	Model         string `toml:"model"`
	LogLevel      string `toml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:    "http://localhost:8000" + apiPrefix,
		DefaultUserID: 1,
		LogLevel:      "info",
	}
}

func TaskdeckDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".taskdeck"), nil
}

func ConfigPath() (string, error) {
	dir, err := TaskdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath is where request/response logs go. Logging to a file keeps the TUI
// output clean.
func LogPath() (string, error) {
	dir, err := TaskdeckDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskdeck.log"), nil
}

func EnsureDirectories() error {
	dir, err := TaskdeckDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Load reads the config file, creating it with defaults on first run, then
// applies environment overrides: TASKDECK_API_URL replaces the base URL
// outright; BACKEND_URL replaces the origin while keeping the /api/v1 prefix.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKDECK_API_URL"); v != "" {
		cfg.APIBaseURL = v
		return
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimRight(v, "/") + apiPrefix
	}
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}
