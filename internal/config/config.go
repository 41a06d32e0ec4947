// ABOUTME: Configuration loading and parsing for the Solace client
// ABOUTME: Supports YAML files with environment variable expansion and sane defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when no server is configured anywhere.
const DefaultBaseURL = "http://localhost:8000"

// Config represents the complete client configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Credentials CredentialsConfig `yaml:"credentials"`
	HTTP        HTTPConfig        `yaml:"http"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds backend address configuration
type ServerConfig struct {
	// BaseURL is the backend host, e.g. "https://api.solace.example".
	// The SOLACE_SERVER environment variable overrides it.
	BaseURL string `yaml:"base_url"`
}

// CredentialsConfig holds credential storage configuration
type CredentialsConfig struct {
	// Path to the local credential database. Defaults to
	// ~/.config/solace/credentials.db.
	Path string `yaml:"path"`
}

// HTTPConfig holds outbound HTTP configuration
type HTTPConfig struct {
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling. Empty means no timeout:
	// a hung request stays pending for its operation only.
	TimeoutRaw string `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultPath returns the config file location: SOLACE_CONFIG if set,
// then ./solace.yaml, then ~/.config/solace/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("SOLACE_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("solace.yaml"); err == nil {
		return "solace.yaml"
	}
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultCredentialsPath returns the default credential database path.
func DefaultCredentialsPath() string {
	return filepath.Join(configDir(), "credentials.db")
}

func configDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "solace")
}

func defaults() *Config {
	return &Config{
		Server:      ServerConfig{BaseURL: DefaultBaseURL},
		Credentials: CredentialsConfig{Path: DefaultCredentialsPath()},
		Logging:     LoggingConfig{Level: "info", Format: "text"},
	}
}

// applyEnvOverrides applies environment settings that win over the file.
func applyEnvOverrides(cfg *Config) {
	if server := os.Getenv("SOLACE_SERVER"); server != "" {
		cfg.Server.BaseURL = server
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Credentials.Path == "" {
		return fmt.Errorf("credentials.path is required")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.HTTP.TimeoutRaw == "" {
		return nil
	}
	timeout, err := time.ParseDuration(cfg.HTTP.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing http timeout %q: %w", cfg.HTTP.TimeoutRaw, err)
	}
	cfg.HTTP.Timeout = timeout
	return nil
}
