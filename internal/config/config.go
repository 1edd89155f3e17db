// Package config loads shelf's TOML configuration from
// ~/.config/shelf/config.toml, falling back to defaults when the file
// is missing.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields shelf needs to reach the book-tracking
// service and its local data directory.
type Config struct {
	ServerURL      string
	DataDir        string
	RequestTimeout time.Duration
}

const (
	defaultConfigPath     = "~/.config/shelf/config.toml"
	defaultDataDir        = "~/.local/share/shelf"
	defaultServerURL      = "http://127.0.0.1:8080/api"
	defaultTimeoutSeconds = 10
)

// Load locates and parses the config file. A missing file yields the
// defaults; a present but unparsable file is an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL:      defaultServerURL,
		DataDir:        mustExpand(defaultDataDir),
		RequestTimeout: defaultTimeoutSeconds * time.Second,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL      string `toml:"server_url"`
		DataDir        string `toml:"data_dir"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if serverURL := strings.TrimSpace(raw.ServerURL); serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if dataDir := strings.TrimSpace(raw.DataDir); dataDir != "" {
		cfg.DataDir = mustExpand(dataDir)
	}
	if raw.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
