package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(Descriptor{Name: name})
	}

	listed := r.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "zeta", listed[0].Name)
	assert.Equal(t, "alpha", listed[1].Name)
	assert.Equal(t, "mid", listed[2].Name)
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{Name: "health_check"})

	d, ok := r.Get("health_check")
	require.True(t, ok)
	assert.Equal(t, "health_check", d.Name)

	_, ok = r.Get("no_such_tool")
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(Descriptor{Name: "dup"})
	assert.Panics(t, func() { r.Register(Descriptor{Name: "dup"}) })
	assert.Panics(t, func() { r.Register(Descriptor{Name: ""}) })
}

func TestNewCatalog_ToolSet(t *testing.T) {
	r := NewCatalog(nil)

	expected := []string{
		"get_all_projects",
		"get_coverage_metrics",
		"get_overall_coverage",
		"get_new_code_coverage",
		"get_duplication_rate",
		"get_uncovered_lines",
		"get_project_issues",
		"health_check",
	}

	listed := r.List()
	require.Len(t, listed, len(expected))
	for i, d := range listed {
		assert.Equal(t, expected[i], d.Name)
		assert.NotEmpty(t, d.Description)
		assert.NotNil(t, d.Handler)
	}
}

func TestNewCatalog_DescriptorFidelity(t *testing.T) {
	r := NewCatalog(nil)

	projects, ok := r.Get("get_all_projects")
	require.True(t, ok)
	require.Len(t, projects.Params, 2)
	assert.Equal(t, "page", projects.Params[0].Name)
	assert.Equal(t, TypeInt, projects.Params[0].Type)
	assert.Equal(t, 1, projects.Params[0].Default)
	assert.Equal(t, "page_size", projects.Params[1].Name)
	assert.Equal(t, 100, projects.Params[1].Default)
	require.NotNil(t, projects.Params[1].Max)
	assert.Equal(t, 500, *projects.Params[1].Max)

	coverage, ok := r.Get("get_coverage_metrics")
	require.True(t, ok)
	require.NotEmpty(t, coverage.Params)
	assert.Equal(t, "component_key", coverage.Params[0].Name)
	assert.True(t, coverage.Params[0].Required)

	issues, ok := r.Get("get_project_issues")
	require.True(t, ok)
	require.Len(t, issues.Params, 4)
	assert.Equal(t, issueTypes, issues.Params[1].Enum)
	assert.Equal(t, issueSeverities, issues.Params[2].Enum)
	assert.Equal(t, issueStatuses, issues.Params[3].Enum)

	health, ok := r.Get("health_check")
	require.True(t, ok)
	assert.Empty(t, health.Params)
}
