package tools

import (
	"math"
	"strconv"

	"github.com/zikazama/sonar-mcp/internal/sonarqube"
)

// Canonical result records. Each has a fixed field set independent of which
// raw measure keys SonarQube actually returned; metrics the server never
// computed come back as JSON null, never omitted.

// ProjectSummary is one project in a ProjectList.
type ProjectSummary struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Qualifier string `json:"qualifier"`
}

// ProjectList is the normalized api/components/search result. Page and
// PageSize echo the validated request values.
type ProjectList struct {
	Projects []ProjectSummary `json:"projects"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// CoverageMetrics is the full coverage metric set for a component.
type CoverageMetrics struct {
	ComponentKey   string   `json:"component_key"`
	ComponentName  string   `json:"component_name"`
	Coverage       *float64 `json:"coverage"`
	LineCoverage   *float64 `json:"line_coverage"`
	BranchCoverage *float64 `json:"branch_coverage"`
	UncoveredLines *float64 `json:"uncovered_lines"`
	LinesToCover   *float64 `json:"lines_to_cover"`
	NewCoverage    *float64 `json:"new_coverage"`
}

// SingleMetric is one named metric for a component.
type SingleMetric struct {
	ComponentKey  string   `json:"component_key"`
	ComponentName string   `json:"component_name"`
	Metric        string   `json:"metric"`
	Value         *float64 `json:"value"`
}

// DuplicationRate carries the duplicated-lines-density metric. When the
// component was never analyzed for duplication the value is null and Note
// explains why; that is a degraded success, not a failure.
type DuplicationRate struct {
	ComponentKey           string   `json:"component_key"`
	ComponentName          string   `json:"component_name"`
	DuplicatedLinesDensity *float64 `json:"duplicated_lines_density"`
	Note                   string   `json:"note,omitempty"`
}

// UncoveredLines is the uncovered-line count for a component. Source names
// which metric was authoritative: the direct uncovered_lines measure is
// preferred; otherwise the count is derived from lines_to_cover and
// line_coverage.
type UncoveredLines struct {
	ComponentKey   string   `json:"component_key"`
	ComponentName  string   `json:"component_name"`
	UncoveredLines *float64 `json:"uncovered_lines"`
	Source         string   `json:"source,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// IssueSummary is one issue in an IssueList.
type IssueSummary struct {
	Key       string `json:"key"`
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Line      int    `json:"line,omitempty"`
}

// IssueList is the normalized api/issues/search result.
type IssueList struct {
	Issues     []IssueSummary `json:"issues"`
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
}

// HealthStatus is the health_check result.
type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail"`
}

func normalizeProjects(resp *sonarqube.ProjectSearchResponse, page, pageSize int) *ProjectList {
	projects := make([]ProjectSummary, 0, len(resp.Components))
	for _, c := range resp.Components {
		projects = append(projects, ProjectSummary{
			Key:       c.Key,
			Name:      c.Name,
			Qualifier: c.Qualifier,
		})
	}
	return &ProjectList{
		Projects: projects,
		Total:    resp.Paging.Total,
		Page:     page,
		PageSize: pageSize,
	}
}

// measureValues flattens a measures response into metric->numeric value.
// Unparseable values are treated as absent.
func measureValues(resp *sonarqube.MeasuresResponse) map[string]float64 {
	values := make(map[string]float64, len(resp.Component.Measures))
	for _, m := range resp.Component.Measures {
		raw := m.Val()
		if raw == "" {
			continue
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			values[m.Metric] = f
		}
	}
	return values
}

// metricOrNil returns a pointer to the metric's value, or nil when absent.
func metricOrNil(values map[string]float64, key string) *float64 {
	if v, ok := values[key]; ok {
		return &v
	}
	return nil
}

func normalizeCoverage(resp *sonarqube.MeasuresResponse) *CoverageMetrics {
	values := measureValues(resp)
	return &CoverageMetrics{
		ComponentKey:   resp.Component.Key,
		ComponentName:  resp.Component.Name,
		Coverage:       metricOrNil(values, "coverage"),
		LineCoverage:   metricOrNil(values, "line_coverage"),
		BranchCoverage: metricOrNil(values, "branch_coverage"),
		UncoveredLines: metricOrNil(values, "uncovered_lines"),
		LinesToCover:   metricOrNil(values, "lines_to_cover"),
		NewCoverage:    metricOrNil(values, "new_coverage"),
	}
}

func normalizeSingleMetric(resp *sonarqube.MeasuresResponse, metric string) *SingleMetric {
	values := measureValues(resp)
	return &SingleMetric{
		ComponentKey:  resp.Component.Key,
		ComponentName: resp.Component.Name,
		Metric:        metric,
		Value:         metricOrNil(values, metric),
	}
}

func normalizeDuplication(resp *sonarqube.MeasuresResponse) *DuplicationRate {
	values := measureValues(resp)
	result := &DuplicationRate{
		ComponentKey:           resp.Component.Key,
		ComponentName:          resp.Component.Name,
		DuplicatedLinesDensity: metricOrNil(values, "duplicated_lines_density"),
	}
	if result.DuplicatedLinesDensity == nil {
		result.Note = "duplication has not been computed for this component; run an analysis first"
	}
	return result
}

func normalizeUncoveredLines(resp *sonarqube.MeasuresResponse) *UncoveredLines {
	values := measureValues(resp)
	result := &UncoveredLines{
		ComponentKey:  resp.Component.Key,
		ComponentName: resp.Component.Name,
	}

	// The direct metric is authoritative when SonarQube computed it.
	if direct := metricOrNil(values, "uncovered_lines"); direct != nil {
		result.UncoveredLines = direct
		result.Source = "uncovered_lines"
		return result
	}

	linesToCover, haveLines := values["lines_to_cover"]
	lineCoverage, haveCoverage := values["line_coverage"]
	if haveLines && haveCoverage {
		derived := linesToCover - math.Round(linesToCover*lineCoverage/100)
		result.UncoveredLines = &derived
		result.Source = "derived"
		result.Note = "derived from lines_to_cover and line_coverage; direct uncovered_lines metric was not computed"
		return result
	}

	result.Note = "coverage has not been computed for this component"
	return result
}

func normalizeIssues(resp *sonarqube.IssueSearchResponse) *IssueList {
	issues := make([]IssueSummary, 0, len(resp.Issues))
	bySeverity := make(map[string]int)
	for _, issue := range resp.Issues {
		issues = append(issues, IssueSummary{
			Key:       issue.Key,
			Rule:      issue.Rule,
			Severity:  issue.Severity,
			Type:      issue.Type,
			Status:    issue.Status,
			Component: issue.Component,
			Message:   issue.Message,
			Line:      issue.Line,
		})
		bySeverity[issue.Severity]++
	}

	total := resp.Total
	if total == 0 {
		total = resp.Paging.Total
	}
	return &IssueList{
		Issues:     issues,
		Total:      total,
		BySeverity: bySeverity,
	}
}
