package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains configuration for the previewer service and CLI
type Config struct {
	// Listening
	Addr string `yaml:"addr"`

	// Repository defaults
	DefaultRepo string `yaml:"default_repo"` // APTREPO
	DefaultDist string `yaml:"default_dist"`

	// Static assets
	StaticDir   string `yaml:"static_dir"`
	TemplateDir string `yaml:"template_dir"`

	// Upstream fetching
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`

	// Response cache, disabled when CacheDir is empty
	CacheDir string        `yaml:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		Addr:         ":5000",
		DefaultDist:  "stable",
		StaticDir:    "static",
		TemplateDir:  "templates",
		UserAgent:    "APT-Repository-Previewer/1.0",
		Timeout:      10 * time.Second,
		Retries:      1,
		MaxBodyBytes: 256 << 20,
		CacheTTL:     time.Hour,
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &WebAPTError{
			Type: ErrInvalidConfig,
			Err:  fmt.Errorf("failed to read config file %s: %w", path, err),
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &WebAPTError{
			Type: ErrInvalidConfig,
			Err:  fmt.Errorf("failed to parse config file %s: %w", path, err),
		}
	}

	return nil
}

// ApplyEnv overlays APTREPO and PORT from the environment onto cfg
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if repo := getenv("APTREPO"); repo != "" {
		cfg.DefaultRepo = repo
	}
	if port := getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Addr == "" {
		return &WebAPTError{Type: ErrInvalidConfig, Err: fmt.Errorf("addr is required")}
	}
	if c.Timeout <= 0 {
		return &WebAPTError{Type: ErrInvalidConfig, Err: fmt.Errorf("timeout must be positive, got %s", c.Timeout)}
	}
	if c.Retries < 1 {
		return &WebAPTError{Type: ErrInvalidConfig, Err: fmt.Errorf("retries must be at least 1, got %d", c.Retries)}
	}
	if c.MaxBodyBytes <= 0 {
		return &WebAPTError{Type: ErrInvalidConfig, Err: fmt.Errorf("max_body_bytes must be positive")}
	}
	if c.DefaultDist == "" {
		c.DefaultDist = "stable"
	}
	if c.UserAgent == "" {
		c.UserAgent = "APT-Repository-Previewer/1.0"
	}
	return nil
}
