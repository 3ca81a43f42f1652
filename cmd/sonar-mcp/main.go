package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zikazama/sonar-mcp/internal/common"
	"github.com/zikazama/sonar-mcp/internal/config"
	"github.com/zikazama/sonar-mcp/internal/mcp"
	"github.com/zikazama/sonar-mcp/internal/sonarqube"
	"github.com/zikazama/sonar-mcp/internal/tools"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "sonar-mcp.toml", "Path to config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(config.GetFullVersion())
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	client := sonarqube.NewClient(cfg.SonarQube, logger)
	registry := tools.NewCatalog(client)
	dispatcher := tools.NewDispatcher(registry, logger)

	srv := mcp.NewServer(cfg.Server.Name, config.GetVersion(), dispatcher, logger)

	logger.Info().
		Str("version", config.GetVersion()).
		Str("sonarqube", cfg.SonarQube.URL).
		Int("tools", registry.Len()).
		Msg("sonar-mcp starting")

	if *stdio {
		if err := srv.ServeStdio(); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := srv.ServeHTTP(cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
