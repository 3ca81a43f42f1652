package sonarqube

// Raw payload shapes for the SonarQube Web API endpoints this server reads.
// Only the fields the normalizers consume are declared.

// Paging is the standard SonarQube pagination block.
type Paging struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
}

// Project is a component returned by api/components/search.
type Project struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	Qualifier        string `json:"qualifier"`
	Visibility       string `json:"visibility,omitempty"`
	LastAnalysisDate string `json:"lastAnalysisDate,omitempty"`
}

// ProjectSearchResponse is the api/components/search response body.
type ProjectSearchResponse struct {
	Paging     Paging    `json:"paging"`
	Components []Project `json:"components"`
}

// MeasurePeriod carries the new-code-period value of a measure.
type MeasurePeriod struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Measure is a single metric value attached to a component.
// New-code metrics (e.g. new_coverage) arrive under Period rather than Value.
type Measure struct {
	Metric    string         `json:"metric"`
	Value     string         `json:"value,omitempty"`
	BestValue *bool          `json:"bestValue,omitempty"`
	Period    *MeasurePeriod `json:"period,omitempty"`
}

// Val returns the measure's value, preferring the plain value and falling
// back to the new-code-period value.
func (m Measure) Val() string {
	if m.Value != "" {
		return m.Value
	}
	if m.Period != nil {
		return m.Period.Value
	}
	return ""
}

// Component is the component block of an api/measures/component response.
type Component struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Qualifier string    `json:"qualifier"`
	Measures  []Measure `json:"measures"`
}

// MeasuresResponse is the api/measures/component response body.
type MeasuresResponse struct {
	Component Component `json:"component"`
}

// Issue is a single entry from api/issues/search.
type Issue struct {
	Key       string `json:"key"`
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Component string `json:"component"`
	Line      int    `json:"line,omitempty"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

// IssueSearchResponse is the api/issues/search response body.
type IssueSearchResponse struct {
	Total  int     `json:"total"`
	Paging Paging  `json:"paging"`
	Issues []Issue `json:"issues"`
}

// SystemStatus is the api/system/status response body.
// Status is one of UP, DOWN, STARTING, RESTARTING, DB_MIGRATION_NEEDED,
// DB_MIGRATION_RUNNING.
type SystemStatus struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
