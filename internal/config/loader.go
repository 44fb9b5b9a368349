package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/thruflo/stackconsole/internal/session"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultBaseURL    = "http://localhost:8081"
	DefaultServerPort = 8374
	DefaultFormat     = "json"
	DefaultColor      = ColorAuto
	DefaultTargetPort = 80
	DefaultLogLevel   = "warn"

	// Dir is the per-project directory holding config and session files.
	Dir = ".stackconsole"
)

// DefaultSessionFile is the session file path relative to the project directory.
const DefaultSessionFile = session.DefaultFile

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		API:     APIConfig{BaseURL: DefaultBaseURL},
		Server:  ServerConfig{Port: DefaultServerPort},
		Output:  OutputConfig{Format: DefaultFormat, Color: DefaultColor},
		Create:  CreateConfig{TargetPort: DefaultTargetPort},
		Session: SessionConfig{File: DefaultSessionFile},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Path returns the config file location under basePath.
func Path(basePath string) string {
	return filepath.Join(basePath, Dir, "config.yaml")
}

// LoadConfig reads and parses .stackconsole/config.yaml under basePath on
// fsys, then applies environment overrides and overrides in order. If the
// file doesn't exist, defaults are used.
func LoadConfig(fsys afero.Fs, basePath string, overrides ...func(*Config)) (*Config, error) {
	return LoadFile(fsys, Path(basePath), os.Getenv, overrides...)
}

// LoadFile reads the config at path. A missing file yields defaults.
// getenv supplies environment overrides; pass nil to skip them. The result
// is validated once every override has been applied.
func LoadFile(fsys afero.Fs, path string, getenv func(string) string, overrides ...func(*Config)) (*Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(fsys, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if getenv != nil {
		if err := ApplyEnv(&cfg, getenv); err != nil {
			return nil, err
		}
	}
	for _, override := range overrides {
		override(&cfg)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overrides cfg with any STACKCONSOLE_* variables that are set.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: EnvPort, Message: "must be an integer"}
		}
		cfg.Server.Port = port
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if err := ValidateBaseURL(cfg.API.BaseURL); err != nil {
		return err
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return ValidationError{Field: "server.port", Message: "must be between 0 and 65535"}
	}

	switch strings.ToLower(cfg.Output.Format) {
	case "json", "yaml":
	default:
		return ValidationError{Field: "output.format", Message: "must be json or yaml"}
	}
	switch cfg.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ValidationError{Field: "output.color", Message: "must be auto, always or never"}
	}

	if cfg.Create.TargetPort < 1 || cfg.Create.TargetPort > 65535 {
		return ValidationError{Field: "create.target_port", Message: "must be between 1 and 65535"}
	}
	if strings.TrimSpace(cfg.Session.File) == "" {
		return ValidationError{Field: "session.file", Message: "required field is empty"}
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ValidationError{Field: "log.level", Message: "must be debug, info, warn or error"}
	}

	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{Field: "api.base_url", Message: "must be an absolute http or https URL"}
	}
	return nil
}

// ResolvePath makes p absolute relative to basePath.
func ResolvePath(basePath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
