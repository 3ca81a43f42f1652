package sonarqube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zikazama/sonar-mcp/internal/common"
	"github.com/zikazama/sonar-mcp/internal/config"
)

func testClient(url string) *Client {
	return NewClient(config.SonarQubeConfig{
		URL:            url,
		Token:          "squ_test_token",
		TimeoutSeconds: 5,
	}, common.NewSilentLogger())
}

func TestClient_TokenAuth(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			t.Error("Expected basic auth header")
		}
		if user != "squ_test_token" || pass != "" {
			t.Errorf("Expected token as username with empty password, got %q / %q", user, pass)
		}
		json.NewEncoder(w).Encode(SystemStatus{Status: "UP"})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	if _, err := client.SystemStatus(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_UsernamePasswordAuth(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		if user != "admin" || pass != "secret" {
			t.Errorf("Expected admin/secret basic auth, got %q / %q", user, pass)
		}
		json.NewEncoder(w).Encode(SystemStatus{Status: "UP"})
	}))
	defer mockServer.Close()

	client := NewClient(config.SonarQubeConfig{
		URL:            mockServer.URL,
		Username:       "admin",
		Password:       "secret",
		TimeoutSeconds: 5,
	}, common.NewSilentLogger())

	if _, err := client.SystemStatus(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_NoCredentials(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("Expected no auth header when no credentials are configured")
		}
		json.NewEncoder(w).Encode(SystemStatus{Status: "UP"})
	}))
	defer mockServer.Close()

	client := NewClient(config.SonarQubeConfig{
		URL:            mockServer.URL,
		TimeoutSeconds: 5,
	}, common.NewSilentLogger())

	if _, err := client.SystemStatus(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_CommaJoinsMultiValuedParams(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("metricKeys"); got != "coverage,line_coverage" {
			t.Errorf("Expected metricKeys=coverage,line_coverage, got %q", got)
		}
		if got := r.URL.Query().Get("component"); got != "my-project" {
			t.Errorf("Expected component=my-project, got %q", got)
		}
		json.NewEncoder(w).Encode(MeasuresResponse{})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	_, err := client.ComponentMeasures(context.Background(), "my-project",
		[]string{"coverage", "line_coverage"}, "", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_BranchAndPullRequestParams(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("branch"); got != "develop" {
			t.Errorf("Expected branch=develop, got %q", got)
		}
		if got := r.URL.Query().Get("pullRequest"); got != "42" {
			t.Errorf("Expected pullRequest=42, got %q", got)
		}
		json.NewEncoder(w).Encode(MeasuresResponse{})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	_, err := client.ComponentMeasures(context.Background(), "my-project",
		[]string{"coverage"}, "develop", "42")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_ProjectSearchParams(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("qualifiers") != "TRK" {
			t.Errorf("Expected qualifiers=TRK, got %q", q.Get("qualifiers"))
		}
		if q.Get("p") != "2" || q.Get("ps") != "50" {
			t.Errorf("Expected p=2 ps=50, got p=%s ps=%s", q.Get("p"), q.Get("ps"))
		}
		json.NewEncoder(w).Encode(ProjectSearchResponse{
			Paging:     Paging{PageIndex: 2, PageSize: 50, Total: 120},
			Components: []Project{{Key: "a", Name: "A", Qualifier: "TRK"}},
		})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	resp, err := client.SearchProjects(context.Background(), 2, 50)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Paging.Total != 120 {
		t.Errorf("Expected total 120, got %d", resp.Paging.Total)
	}
	if len(resp.Components) != 1 || resp.Components[0].Key != "a" {
		t.Errorf("Unexpected components: %+v", resp.Components)
	}
}

func TestClient_ServerErrorStatusPreserved(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"msg":"Insufficient privileges"}]}`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	_, err := client.SearchProjects(context.Background(), 1, 100)
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}

	upstream, ok := err.(*UpstreamError)
	if !ok {
		t.Fatalf("Expected *UpstreamError, got %T", err)
	}
	if upstream.Status != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", upstream.Status)
	}
	if !strings.Contains(upstream.Error(), "403") {
		t.Errorf("Expected status in message, got %q", upstream.Error())
	}
	if !strings.Contains(upstream.Message, "Insufficient privileges") {
		t.Errorf("Expected upstream body in message, got %q", upstream.Message)
	}
}

func TestClient_ErrorBodyTruncated(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	_, err := client.SystemStatus(context.Background())
	upstream, ok := err.(*UpstreamError)
	if !ok {
		t.Fatalf("Expected *UpstreamError, got %T", err)
	}
	if len(upstream.Message) != maxErrorBody {
		t.Errorf("Expected message truncated to %d bytes, got %d", maxErrorBody, len(upstream.Message))
	}
}

func TestClient_NetworkErrorStatusZero(t *testing.T) {
	client := testClient("http://localhost:1")
	_, err := client.SystemStatus(context.Background())
	if err == nil {
		t.Fatal("Expected error when server is unreachable")
	}

	upstream, ok := err.(*UpstreamError)
	if !ok {
		t.Fatalf("Expected *UpstreamError, got %T", err)
	}
	if upstream.Status != 0 {
		t.Errorf("Expected status 0 for network failure, got %d", upstream.Status)
	}
	if !strings.Contains(upstream.Error(), "unreachable") {
		t.Errorf("Expected unreachable message, got %q", upstream.Error())
	}
}

func TestClient_TrailingSlashTrimmed(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/system/status" {
			t.Errorf("Expected /api/system/status, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(SystemStatus{Status: "UP"})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL + "/")
	if _, err := client.SystemStatus(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_IssueFiltersForwarded(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("componentKeys") != "my-project" {
			t.Errorf("Expected componentKeys=my-project, got %q", q.Get("componentKeys"))
		}
		if q.Get("severities") != "MAJOR,CRITICAL" {
			t.Errorf("Expected severities=MAJOR,CRITICAL, got %q", q.Get("severities"))
		}
		if _, present := q["types"]; present {
			t.Error("Expected empty types filter to be omitted")
		}
		json.NewEncoder(w).Encode(IssueSearchResponse{Total: 0})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL)
	_, err := client.SearchIssues(context.Background(), "my-project",
		nil, []string{"MAJOR", "CRITICAL"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
