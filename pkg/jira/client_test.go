package jira_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/jira"
)

const testJQL = `assignee=currentUser() AND status = "In Progress"`

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeJira struct {
	searchStatus int
	searchBody   string
	issues       map[string]string
	searches     atomic.Int32

	mu         sync.Mutex
	lastSearch map[string]any
}

func (f *fakeJira) search() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastSearch
}

func (f *fakeJira) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /rest/api/3/search/jql", func(rw http.ResponseWriter, req *http.Request) {
		f.searches.Add(1)

		user, pass, ok := req.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "token", pass)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		var payload map[string]any

		assert.NoError(t, json.NewDecoder(req.Body).Decode(&payload))

		f.mu.Lock()
		f.lastSearch = payload
		f.mu.Unlock()

		rw.WriteHeader(f.searchStatus)
		_, _ = io.WriteString(rw, f.searchBody)
	})

	mux.HandleFunc("GET /rest/api/3/issue/{id}", func(rw http.ResponseWriter, req *http.Request) {
		body, ok := f.issues[req.PathValue("id")]
		if !ok {
			rw.WriteHeader(http.StatusNotFound)

			return
		}

		_, _ = io.WriteString(rw, body)
	})

	return mux
}

func newClient(t *testing.T, f *fakeJira, maxResults int) *jira.Client {
	t.Helper()

	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	client, err := jira.NewClient(jira.Config{
		Domain:     srv.URL,
		Email:      "me@example.com",
		APIToken:   "token",
		JQL:        testJQL,
		MaxResults: maxResults,
		Timeout:    5 * time.Second,
	}, nil, quietLogger)
	require.NoError(t, err)

	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := jira.NewClient(jira.Config{Domain: "acme.atlassian.net", Email: "me@example.com"}, nil, nil)
	require.ErrorIs(t, err, jira.ErrMissingCredentials)
}

func TestFetchInProgress_SearchThenIssues(t *testing.T) {
	t.Parallel()

	f := &fakeJira{
		searchStatus: http.StatusOK,
		searchBody:   `{"issues":[{"id":"10001"},"10002",10003,{"key":"no-id"}]}`,
		issues: map[string]string{
			"10001": `{"key":"ABC-12","fields":{"summary":"Fix bug","status":{"name":"In Progress"},"labels":["backend"]}}`,
			"10002": `{"key":"XYZ-7","fields":{"summary":"Add feature","status":"In Review","labels":["api","backend"]}}`,
			"10003": `{"id":"10003","fields":{}}`,
		},
	}

	issues, err := newClient(t, f, 20).FetchInProgress(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []jira.Issue{
		{Key: "ABC-12", Summary: "Fix bug", Status: "In Progress", Labels: []string{"backend"}},
		{Key: "XYZ-7", Summary: "Add feature", Status: "In Review", Labels: []string{"api", "backend"}},
		{Key: "10003", Summary: "No summary", Status: "Unknown"},
	}, issues)

	assert.Equal(t, testJQL, f.search()["jql"])
	assert.InDelta(t, 20, f.search()["maxResults"], 0)
}

func TestFetchInProgress_SkipsFailedIssues(t *testing.T) {
	t.Parallel()

	f := &fakeJira{
		searchStatus: http.StatusOK,
		searchBody:   `{"issues":[{"id":"1"},{"id":"2"}]}`,
		issues: map[string]string{
			"2": `{"key":"OK-2","fields":{"summary":"Fine","status":{"name":"Done"}}}`,
		},
	}

	issues, err := newClient(t, f, 20).FetchInProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "OK-2", issues[0].Key)
}

func TestFetchInProgress_LimitsToMaxResults(t *testing.T) {
	t.Parallel()

	f := &fakeJira{
		searchStatus: http.StatusOK,
		searchBody:   `{"issues":["1","2","3"]}`,
		issues: map[string]string{
			"1": `{"key":"A-1","fields":{"summary":"a","status":{"name":"x"}}}`,
			"2": `{"key":"A-2","fields":{"summary":"b","status":{"name":"x"}}}`,
			"3": `{"key":"A-3","fields":{"summary":"c","status":{"name":"x"}}}`,
		},
	}

	issues, err := newClient(t, f, 2).FetchInProgress(context.Background())
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestFetchInProgress_NonOKSearchYieldsNoIssues(t *testing.T) {
	t.Parallel()

	f := &fakeJira{searchStatus: http.StatusUnauthorized, searchBody: `{"errorMessages":["nope"]}`}

	issues, err := newClient(t, f, 20).FetchInProgress(context.Background())
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, int32(1), f.searches.Load())
}

func TestFetchInProgress_MalformedSearchBody(t *testing.T) {
	t.Parallel()

	f := &fakeJira{searchStatus: http.StatusOK, searchBody: `not json`}

	_, err := newClient(t, f, 20).FetchInProgress(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode search response")
}

func TestFetchInProgress_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := jira.NewClient(jira.Config{
		Domain: url, Email: "e", APIToken: "t", MaxResults: 1, Timeout: time.Second,
	}, nil, quietLogger)
	require.NoError(t, err)

	_, err = client.FetchInProgress(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search issues")
}

func TestRecordsAndLabels(t *testing.T) {
	t.Parallel()

	issues := []jira.Issue{
		{Key: "A-1", Summary: "One", Status: "Done", Labels: []string{"web", "api"}},
		{Key: "B-2", Summary: "Two", Status: "To Do", Labels: []string{"api", ""}},
	}

	assert.Equal(t, []dailylog.Issue{
		{Key: "A-1", Summary: "One", Status: "Done"},
		{Key: "B-2", Summary: "Two", Status: "To Do"},
	}, jira.Records(issues))
	assert.Equal(t, []string{"api", "web"}, jira.Labels(issues).Sorted())
	assert.Empty(t, jira.Labels(nil).Sorted())
}
