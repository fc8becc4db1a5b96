package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the optional configuration file.
const ConfigFile = "config.yaml"

// FileConfig is the content of config.yaml:
//
//	data_dir: ~/notes
//	log_level: debug
//	log_format: json
type FileConfig struct {
	DataDir   string `yaml:"data_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfigPath returns <user config dir>/sealnote/config.yaml.
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName, ConfigFile), nil
}

// LoadConfig reads the YAML config at path. A missing file yields the zero
// config.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := cfg.Level(); err != nil {
		return cfg, err
	}
	switch cfg.Format() {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("invalid log_format %q: want text or json", cfg.LogFormat)
	}
	return cfg, nil
}

// Level parses log_level. Empty means info.
func (c FileConfig) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Format returns log_format lowercased, defaulting to text.
func (c FileConfig) Format() string {
	if c.LogFormat == "" {
		return "text"
	}
	return strings.ToLower(c.LogFormat)
}
