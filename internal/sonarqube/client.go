// Package sonarqube is an authenticated read-only client for the SonarQube
// Web API. It owns the base URL, credential, and timeout; every upstream
// failure surfaces as an *UpstreamError so callers can report the original
// HTTP status.
package sonarqube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zikazama/sonar-mcp/internal/common"
	"github.com/zikazama/sonar-mcp/internal/config"
)

// maxErrorBody bounds how much of an upstream error body is kept in the
// UpstreamError message.
const maxErrorBody = 512

// maxResponseBody bounds how much of any upstream response is read.
const maxResponseBody = 1 << 20

// UpstreamError is a failed SonarQube request. Status is the upstream HTTP
// status, or 0 for network failures and timeouts.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("sonarqube unreachable: %s", e.Message)
	}
	return fmt.Sprintf("sonarqube returned %d: %s", e.Status, e.Message)
}

// Client communicates with the SonarQube Web API. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	username   string
	password   string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client from an immutable SonarQube configuration.
// Calls are read-only and idempotent; no retries are performed.
func NewClient(cfg config.SonarQubeConfig, logger *common.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		token:    cfg.Token,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// get performs an authenticated GET against a relative API path.
// Multi-valued query parameters are comma-joined per SonarQube convention.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	query := make(url.Values, len(params))
	for key, vals := range params {
		query.Set(key, strings.Join(vals, ","))
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	c.logger.Debug().
		Str("method", "GET").
		Str("path", path).
		Msg("SonarQube Request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.applyAuth(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Dur("duration", duration).Msg("SonarQube Request Failed")
		return nil, &UpstreamError{Status: 0, Message: truncate(err.Error())}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &UpstreamError{Status: 0, Message: truncate(err.Error())}
	}

	c.logger.Debug().
		Str("status", resp.Status).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Str("path", path).
		Msg("SonarQube Response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Message: truncate(string(body))}
	}

	return body, nil
}

// applyAuth sets credentials on an outgoing request. A token is sent as the
// basic-auth username with an empty password, per SonarQube convention;
// otherwise username/password basic auth is used when configured.
func (c *Client) applyAuth(req *http.Request) {
	if c.token != "" {
		req.SetBasicAuth(c.token, "")
		return
	}
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

// SearchProjects lists projects via api/components/search.
// Pagination bounds are validated at the dispatch boundary; values arrive
// here already checked.
func (c *Client) SearchProjects(ctx context.Context, page, pageSize int) (*ProjectSearchResponse, error) {
	params := url.Values{}
	params.Set("qualifiers", "TRK")
	params.Set("p", strconv.Itoa(page))
	params.Set("ps", strconv.Itoa(pageSize))

	body, err := c.get(ctx, "/api/components/search", params)
	if err != nil {
		return nil, err
	}

	var resp ProjectSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse project search response: %w", err)
	}
	return &resp, nil
}

// ComponentMeasures fetches metric values for a component via
// api/measures/component. Branch and pull request scoping are optional.
func (c *Client) ComponentMeasures(ctx context.Context, componentKey string, metricKeys []string, branch, pullRequest string) (*MeasuresResponse, error) {
	params := url.Values{}
	params.Set("component", componentKey)
	params["metricKeys"] = metricKeys
	if branch != "" {
		params.Set("branch", branch)
	}
	if pullRequest != "" {
		params.Set("pullRequest", pullRequest)
	}

	body, err := c.get(ctx, "/api/measures/component", params)
	if err != nil {
		return nil, err
	}

	var resp MeasuresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse measures response: %w", err)
	}
	return &resp, nil
}

// SearchIssues fetches issues for a component via api/issues/search.
// Filter slices are forwarded comma-joined; empty slices are omitted.
func (c *Client) SearchIssues(ctx context.Context, componentKey string, types, severities, statuses []string) (*IssueSearchResponse, error) {
	params := url.Values{}
	params.Set("componentKeys", componentKey)
	if len(types) > 0 {
		params["types"] = types
	}
	if len(severities) > 0 {
		params["severities"] = severities
	}
	if len(statuses) > 0 {
		params["statuses"] = statuses
	}

	body, err := c.get(ctx, "/api/issues/search", params)
	if err != nil {
		return nil, err
	}

	var resp IssueSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse issue search response: %w", err)
	}
	return &resp, nil
}

// SystemStatus probes api/system/status. Used by the health check.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	body, err := c.get(ctx, "/api/system/status", nil)
	if err != nil {
		return nil, err
	}

	var resp SystemStatus
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse system status response: %w", err)
	}
	return &resp, nil
}

// BaseURL returns the configured SonarQube base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
