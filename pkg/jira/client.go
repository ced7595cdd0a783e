// Package jira fetches the caller's in-progress issues from the Jira Cloud REST API.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
)

const (
	searchPath = "/rest/api/3/search/jql"
	issuePath  = "/rest/api/3/issue/"

	defaultSummary = "No summary"
	defaultStatus  = "Unknown"
	unknownKey     = "UNKNOWN"

	// maxLoggedBody caps how much of an error response is logged.
	maxLoggedBody = 512
)

// ErrMissingCredentials is returned when domain, email, or API token is empty.
var ErrMissingCredentials = errors.New("jira domain, email, and API token are required")

// Config holds client settings.
type Config struct {
	// Domain is the site host, e.g. "acme.atlassian.net". A value with a
	// scheme is used as the base URL as is.
	Domain     string
	Email      string
	APIToken   string
	JQL        string
	MaxResults int
	Timeout    time.Duration
}

// Issue is a fetched issue reduced to what the daily report needs.
type Issue struct {
	Key     string
	Summary string
	Status  string
	Labels  []string
}

// Record converts the issue into the log's issue form.
func (i Issue) Record() dailylog.Issue {
	return dailylog.Issue{Key: i.Key, Summary: i.Summary, Status: i.Status}
}

// Client talks to one Jira site.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient validates cfg. transport nil uses http.DefaultTransport; logger nil uses slog.Default.
func NewClient(cfg Config, transport http.RoundTripper, logger *slog.Logger) (*Client, error) {
	if cfg.Domain == "" || cfg.Email == "" || cfg.APIToken == "" {
		return nil, ErrMissingCredentials
	}

	if logger == nil {
		logger = slog.Default()
	}

	baseURL := strings.TrimRight(cfg.Domain, "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		logger:  logger,
	}, nil
}

type searchRequest struct {
	JQL        string `json:"jql"`
	MaxResults int    `json:"maxResults"`
}

type searchResponse struct {
	Issues []json.RawMessage `json:"issues"`
}

type issueResponse struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	IssueKey string `json:"issueKey"`
	Fields   struct {
		Summary *string         `json:"summary"`
		Status  json.RawMessage `json:"status"`
		Labels  []string        `json:"labels"`
	} `json:"fields"`
}

// FetchInProgress runs the configured JQL search and loads every matching
// issue. A search answered with a non-200 status is logged and yields no
// issues; an issue that fails to load is logged and skipped.
func (c *Client) FetchInProgress(ctx context.Context) ([]Issue, error) {
	ids, err := c.search(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "found in-progress issues", "count", len(ids))

	if c.cfg.MaxResults > 0 && len(ids) > c.cfg.MaxResults {
		ids = ids[:c.cfg.MaxResults]
	}

	issues := make([]Issue, 0, len(ids))

	for _, id := range ids {
		issue, ok, fetchErr := c.fetchIssue(ctx, id)
		if fetchErr != nil {
			return nil, fetchErr
		}

		if !ok {
			continue
		}

		c.logger.DebugContext(ctx, "fetched issue", "key", issue.Key, "status", issue.Status)
		issues = append(issues, issue)
	}

	return issues, nil
}

func (c *Client) search(ctx context.Context) ([]string, error) {
	payload, err := json.Marshal(searchRequest{JQL: c.cfg.JQL, MaxResults: c.cfg.MaxResults})
	if err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	if status != http.StatusOK {
		c.logger.ErrorContext(ctx, "jira search failed", "status", status, "body", truncate(body))

		return nil, nil
	}

	var resp searchResponse

	err = json.Unmarshal(body, &resp)
	if err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(resp.Issues))
	for _, raw := range resp.Issues {
		if id, ok := issueID(raw); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (c *Client) fetchIssue(ctx context.Context, id string) (Issue, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+issuePath+id, http.NoBody)
	if err != nil {
		return Issue{}, false, fmt.Errorf("build issue request: %w", err)
	}

	body, status, err := c.do(req)
	if err != nil {
		return Issue{}, false, fmt.Errorf("fetch issue %s: %w", id, err)
	}

	if status != http.StatusOK {
		c.logger.WarnContext(ctx, "failed to fetch issue", "id", id, "status", status)

		return Issue{}, false, nil
	}

	var resp issueResponse

	err = json.Unmarshal(body, &resp)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to decode issue", "id", id, "error", err)

		return Issue{}, false, nil
	}

	return resp.issue(), true, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

func (r issueResponse) issue() Issue {
	key := r.Key
	if key == "" {
		key = r.IssueKey
	}

	if key == "" {
		key = r.ID
	}

	if key == "" {
		key = unknownKey
	}

	summary := defaultSummary
	if r.Fields.Summary != nil {
		summary = *r.Fields.Summary
	}

	return Issue{
		Key:     key,
		Summary: summary,
		Status:  statusName(r.Fields.Status),
		Labels:  r.Fields.Labels,
	}
}

// statusName accepts either a status object with a name or a bare value.
func statusName(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return defaultStatus
	}

	var obj struct {
		Name *string `json:"name"`
	}

	if json.Unmarshal(raw, &obj) == nil {
		if obj.Name == nil {
			return defaultStatus
		}

		return *obj.Name
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		return text
	}

	return strings.Trim(string(raw), `"`)
}

// issueID accepts {"id": ...}, a string, or a number.
func issueID(raw json.RawMessage) (string, bool) {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil {
		idRaw, ok := obj["id"]
		if !ok {
			return "", false
		}

		return issueID(idRaw)
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		return text, text != ""
	}

	var num json.Number
	if json.Unmarshal(raw, &num) == nil {
		if n, err := num.Int64(); err == nil {
			return strconv.FormatInt(n, 10), true
		}

		return num.String(), true
	}

	return "", false
}

func truncate(body []byte) string {
	if len(body) <= maxLoggedBody {
		return string(body)
	}

	return string(body[:maxLoggedBody]) + "..."
}
