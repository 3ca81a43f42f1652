package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the full sonar-mcp configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	SonarQube SonarQubeConfig `toml:"sonarqube"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name" env:"SONARMCP_NAME"`
	Port string `toml:"port" env:"SONARMCP_PORT"`
}

// SonarQubeConfig contains the upstream SonarQube connection settings.
// Token authentication takes precedence over username/password.
type SonarQubeConfig struct {
	URL            string `toml:"url" env:"SONARQUBE_URL"`
	Token          string `toml:"token" env:"SONARQUBE_TOKEN"`
	Username       string `toml:"username" env:"SONARQUBE_USERNAME"`
	Password       string `toml:"password" env:"SONARQUBE_PASSWORD"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"SONARQUBE_TIMEOUT_SECONDS"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level" env:"SONARMCP_LOG_LEVEL"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path" env:"SONARMCP_LOG_FILE"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Load loads configuration with priority: defaults -> TOML file -> env.
// A missing config file is not an error; the file is optional.
func Load(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.SonarQube.URL == "" {
		return fmt.Errorf("sonarqube.url is required (set it in the config file or via SONARQUBE_URL)")
	}
	if c.SonarQube.TimeoutSeconds <= 0 {
		return fmt.Errorf("sonarqube.timeout_seconds must be positive, got %d", c.SonarQube.TimeoutSeconds)
	}
	return nil
}
