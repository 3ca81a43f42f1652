package tools

import (
	"context"
	"fmt"

	"github.com/zikazama/sonar-mcp/internal/sonarqube"
)

// SonarQube's enumerated filter value sets for issue search. Unrecognized
// values fail validation before any request is made; SonarQube itself
// silently ignores unknown filters, which hides caller mistakes.
var (
	issueTypes      = []string{"CODE_SMELL", "BUG", "VULNERABILITY", "SECURITY_HOTSPOT"}
	issueSeverities = []string{"INFO", "MINOR", "MAJOR", "CRITICAL", "BLOCKER"}
	issueStatuses   = []string{"OPEN", "CONFIRMED", "REOPENED", "RESOLVED", "CLOSED"}
)

// coverageMetricKeys is the fixed metric set fetched by get_coverage_metrics.
var coverageMetricKeys = []string{
	"coverage",
	"line_coverage",
	"branch_coverage",
	"uncovered_lines",
	"lines_to_cover",
	"new_coverage",
}

func intPtr(n int) *int { return &n }

// componentScopeParams are the parameters shared by every per-component tool:
// the component key plus optional branch / pull request scoping.
func componentScopeParams() []ParamSpec {
	return []ParamSpec{
		{
			Name:        "component_key",
			Type:        TypeString,
			Description: "The SonarQube component key",
			Required:    true,
		},
		{
			Name:        "branch",
			Type:        TypeString,
			Description: "Branch to read metrics from (default: main branch)",
		},
		{
			Name:        "pull_request",
			Type:        TypeString,
			Description: "Pull request ID to read metrics from",
		},
	}
}

// NewCatalog builds the registry of the eight SonarQube tools, each wired to
// a client + normalizer pipeline. Registration order is the discovery order.
func NewCatalog(client *sonarqube.Client) *Registry {
	r := NewRegistry()

	r.Register(Descriptor{
		Name:        "get_all_projects",
		Description: "Get all projects from SonarQube",
		Params: []ParamSpec{
			{
				Name:        "page",
				Type:        TypeInt,
				Description: "Page number (default: 1)",
				Default:     1,
				Min:         intPtr(1),
			},
			{
				Name:        "page_size",
				Type:        TypeInt,
				Description: "Number of projects per page (default: 100, max: 500)",
				Default:     100,
				Min:         intPtr(1),
				Max:         intPtr(500),
			},
		},
		Handler: handleGetAllProjects(client),
	})

	r.Register(Descriptor{
		Name:        "get_coverage_metrics",
		Description: "Get all coverage metrics for a SonarQube component",
		Params:      componentScopeParams(),
		Handler:     handleGetCoverageMetrics(client),
	})

	r.Register(Descriptor{
		Name:        "get_overall_coverage",
		Description: "Get overall coverage for a SonarQube component",
		Params:      componentScopeParams(),
		Handler:     handleSingleMetric(client, "coverage"),
	})

	r.Register(Descriptor{
		Name:        "get_new_code_coverage",
		Description: "Get new code coverage for a SonarQube component",
		Params:      componentScopeParams(),
		Handler:     handleSingleMetric(client, "new_coverage"),
	})

	r.Register(Descriptor{
		Name:        "get_duplication_rate",
		Description: "Get duplication rate for a SonarQube component",
		Params:      componentScopeParams(),
		Handler:     handleGetDuplicationRate(client),
	})

	r.Register(Descriptor{
		Name:        "get_uncovered_lines",
		Description: "Get uncovered lines for a SonarQube component",
		Params:      componentScopeParams(),
		Handler:     handleGetUncoveredLines(client),
	})

	r.Register(Descriptor{
		Name:        "get_project_issues",
		Description: "Get issues for a SonarQube component",
		Params: []ParamSpec{
			{
				Name:        "component_key",
				Type:        TypeString,
				Description: "The SonarQube component key",
				Required:    true,
			},
			{
				Name:        "types",
				Type:        TypeStringArray,
				Description: "Issue types to filter (CODE_SMELL, BUG, VULNERABILITY, SECURITY_HOTSPOT)",
				Enum:        issueTypes,
			},
			{
				Name:        "severities",
				Type:        TypeStringArray,
				Description: "Severities to filter (INFO, MINOR, MAJOR, CRITICAL, BLOCKER)",
				Enum:        issueSeverities,
			},
			{
				Name:        "statuses",
				Type:        TypeStringArray,
				Description: "Statuses to filter (OPEN, CONFIRMED, REOPENED, RESOLVED, CLOSED)",
				Enum:        issueStatuses,
			},
		},
		Handler: handleGetProjectIssues(client),
	})

	r.Register(Descriptor{
		Name:        "health_check",
		Description: "Check if the SonarQube MCP server is healthy",
		Handler:     handleHealthCheck(client),
	})

	return r
}

func handleGetAllProjects(client *sonarqube.Client) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		page := args.Int("page")
		pageSize := args.Int("page_size")

		resp, err := client.SearchProjects(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		return normalizeProjects(resp, page, pageSize), nil
	}
}

func handleGetCoverageMetrics(client *sonarqube.Client) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		resp, err := client.ComponentMeasures(ctx, args.String("component_key"),
			coverageMetricKeys, args.String("branch"), args.String("pull_request"))
		if err != nil {
			return nil, err
		}
		return normalizeCoverage(resp), nil
	}
}

func handleSingleMetric(client *sonarqube.Client, metric string) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		resp, err := client.ComponentMeasures(ctx, args.String("component_key"),
			[]string{metric}, args.String("branch"), args.String("pull_request"))
		if err != nil {
			return nil, err
		}
		return normalizeSingleMetric(resp, metric), nil
	}
}

func handleGetDuplicationRate(client *sonarqube.Client) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		resp, err := client.ComponentMeasures(ctx, args.String("component_key"),
			[]string{"duplicated_lines_density"}, args.String("branch"), args.String("pull_request"))
		if err != nil {
			return nil, err
		}
		return normalizeDuplication(resp), nil
	}
}

func handleGetUncoveredLines(client *sonarqube.Client) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		resp, err := client.ComponentMeasures(ctx, args.String("component_key"),
			[]string{"uncovered_lines", "lines_to_cover", "line_coverage"},
			args.String("branch"), args.String("pull_request"))
		if err != nil {
			return nil, err
		}
		return normalizeUncoveredLines(resp), nil
	}
}

func handleGetProjectIssues(client *sonarqube.Client) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		resp, err := client.SearchIssues(ctx, args.String("component_key"),
			args.StringSlice("types"), args.StringSlice("severities"), args.StringSlice("statuses"))
		if err != nil {
			return nil, err
		}
		return normalizeIssues(resp), nil
	}
}

// handleHealthCheck probes the SonarQube system status endpoint. An
// unreachable upstream is reported as healthy:false with a detail string,
// never as an error.
func handleHealthCheck(client *sonarqube.Client) HandlerFunc {
	return func(ctx context.Context, args Args) (any, error) {
		status, err := client.SystemStatus(ctx)
		if err != nil {
			return &HealthStatus{
				Healthy: false,
				Detail:  fmt.Sprintf("SonarQube at %s is unreachable: %v", client.BaseURL(), err),
			}, nil
		}
		if status.Status != "UP" {
			return &HealthStatus{
				Healthy: false,
				Detail:  fmt.Sprintf("SonarQube at %s reports status %s", client.BaseURL(), status.Status),
			}, nil
		}
		return &HealthStatus{
			Healthy: true,
			Detail:  fmt.Sprintf("SonarQube %s at %s is UP", status.Version, client.BaseURL()),
		}, nil
	}
}
