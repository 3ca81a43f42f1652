package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "sonar-mcp",
			Port: "8181",
		},
		SonarQube: SonarQubeConfig{
			URL:            "http://localhost:9000",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/sonar-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
