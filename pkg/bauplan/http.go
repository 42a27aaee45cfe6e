package bauplan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const clientTimeout = 120 * time.Second

// apiClient is the HTTP binding of Client against the commercial API.
type apiClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient constructs a Client for the given Config. The credential is
// resolved here, once per call: per-call API key override, then named
// profile, then the host default profile.
func NewClient(cfg Config) (Client, error) {
	apiKey, endpoint, err := resolveCredential(cfg)
	if err != nil {
		return nil, err
	}
	return &apiClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: clientTimeout},
	}, nil
}

// apiError is the error envelope returned by the platform.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// do issues a request and decodes the JSON response into out. Upstream
// failures are surfaced with the platform's own error detail.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// exists translates a GET into a presence check: 404 means false.
func (c *apiClient) exists(ctx context.Context, path string, query url.Values) (bool, error) {
	err := c.do(ctx, http.MethodGet, path, query, nil, &struct{}{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status 404")
}

func refQuery(ref, namespace string) url.Values {
	q := url.Values{}
	if ref != "" {
		q.Set("ref", ref)
	}
	if namespace != "" {
		q.Set("namespace", namespace)
	}
	return q
}

func (c *apiClient) Info(ctx context.Context) (*UserInfo, error) {
	var out struct {
		User UserInfo `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/info", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *apiClient) GetTables(ctx context.Context, ref, namespace string) ([]Table, error) {
	var out struct {
		Tables []Table `json:"tables"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/tables", refQuery(ref, namespace), nil, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

func (c *apiClient) GetTable(ctx context.Context, ref, table, namespace string) (*TableWithMetadata, error) {
	var out TableWithMetadata
	path := "/v0/tables/" + url.PathEscape(table)
	if err := c.do(ctx, http.MethodGet, path, refQuery(ref, namespace), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) HasTable(ctx context.Context, ref, table, namespace string) (bool, error) {
	return c.exists(ctx, "/v0/tables/"+url.PathEscape(table), refQuery(ref, namespace))
}

func (c *apiClient) CreateTable(ctx context.Context, args CreateTableArgs) (*Table, error) {
	var out Table
	if err := c.do(ctx, http.MethodPost, "/v0/tables", nil, args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) DeleteTable(ctx context.Context, table, branch, namespace string) error {
	q := refQuery(branch, namespace)
	return c.do(ctx, http.MethodDelete, "/v0/tables/"+url.PathEscape(table), q, nil, nil)
}

func (c *apiClient) PlanTableCreation(ctx context.Context, args CreateTableArgs) (*TableCreatePlan, error) {
	var out TableCreatePlan
	if err := c.do(ctx, http.MethodPost, "/v0/table-plans", nil, args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) ApplyTableCreationPlan(ctx context.Context, planYAML string) (*PlanApplyState, error) {
	body := map[string]string{"plan": planYAML}
	var out PlanApplyState
	if err := c.do(ctx, http.MethodPost, "/v0/table-plans/apply", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) ImportData(ctx context.Context, args ImportDataArgs) (*ImportState, error) {
	var out ImportState
	if err := c.do(ctx, http.MethodPost, "/v0/imports", nil, args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) RevertTable(ctx context.Context, table, sourceRef, intoBranch string, replace bool) error {
	body := map[string]any{
		"table":       table,
		"source_ref":  sourceRef,
		"into_branch": intoBranch,
		"replace":     replace,
	}
	return c.do(ctx, http.MethodPost, "/v0/tables/revert", nil, body, nil)
}

func (c *apiClient) GetBranches(ctx context.Context, name, user string, limit int) ([]Branch, error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if user != "" {
		q.Set("user", user)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Branches []Branch `json:"branches"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/branches", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Branches, nil
}

func (c *apiClient) HasBranch(ctx context.Context, branch string) (bool, error) {
	return c.exists(ctx, "/v0/branches/"+url.PathEscape(branch), nil)
}

func (c *apiClient) CreateBranch(ctx context.Context, branch, fromRef string) (*Branch, error) {
	body := map[string]string{"branch": branch, "from_ref": fromRef}
	var out Branch
	if err := c.do(ctx, http.MethodPost, "/v0/branches", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) DeleteBranch(ctx context.Context, branch string) error {
	return c.do(ctx, http.MethodDelete, "/v0/branches/"+url.PathEscape(branch), nil, nil, nil)
}

func (c *apiClient) MergeBranch(ctx context.Context, args MergeArgs) error {
	return c.do(ctx, http.MethodPost, "/v0/branches/merge", nil, args, nil)
}

func (c *apiClient) GetCommits(ctx context.Context, ref string, filter CommitFilter) ([]Commit, error) {
	q := url.Values{}
	if filter.MessageContains != "" {
		q.Set("message", filter.MessageContains)
	}
	if filter.AuthorUsername != "" {
		q.Set("author_username", filter.AuthorUsername)
	}
	if filter.AuthorEmail != "" {
		q.Set("author_email", filter.AuthorEmail)
	}
	if filter.DateStart != "" {
		q.Set("date_start", filter.DateStart)
	}
	if filter.DateEnd != "" {
		q.Set("date_end", filter.DateEnd)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	var out struct {
		Commits []Commit `json:"commits"`
	}
	path := "/v0/refs/" + url.PathEscape(ref) + "/commits"
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Commits, nil
}

func (c *apiClient) GetNamespaces(ctx context.Context, ref, filter string, limit int) ([]Namespace, error) {
	q := refQuery(ref, "")
	if filter != "" {
		q.Set("filter", filter)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Namespaces []Namespace `json:"namespaces"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/namespaces", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Namespaces, nil
}

func (c *apiClient) HasNamespace(ctx context.Context, ref, namespace string) (bool, error) {
	return c.exists(ctx, "/v0/namespaces/"+url.PathEscape(namespace), refQuery(ref, ""))
}

func (c *apiClient) CreateNamespace(ctx context.Context, namespace, branch string) (*Namespace, error) {
	body := map[string]string{"namespace": namespace, "branch": branch}
	var out Namespace
	if err := c.do(ctx, http.MethodPost, "/v0/namespaces", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) DeleteNamespace(ctx context.Context, namespace, branch string) error {
	return c.do(ctx, http.MethodDelete, "/v0/namespaces/"+url.PathEscape(namespace), refQuery(branch, ""), nil, nil)
}

func (c *apiClient) GetTags(ctx context.Context, filter string, limit int) ([]Tag, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/tags", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

func (c *apiClient) HasTag(ctx context.Context, tag string) (bool, error) {
	return c.exists(ctx, "/v0/tags/"+url.PathEscape(tag), nil)
}

func (c *apiClient) CreateTag(ctx context.Context, tag, fromRef string) (*Tag, error) {
	body := map[string]string{"tag": tag, "from_ref": fromRef}
	var out Tag
	if err := c.do(ctx, http.MethodPost, "/v0/tags", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) DeleteTag(ctx context.Context, tag string) error {
	return c.do(ctx, http.MethodDelete, "/v0/tags/"+url.PathEscape(tag), nil, nil, nil)
}

func (c *apiClient) Query(ctx context.Context, query, ref, namespace string) (*QueryResult, error) {
	body := map[string]string{"query": query}
	if ref != "" {
		body["ref"] = ref
	}
	if namespace != "" {
		body["namespace"] = namespace
	}
	var out QueryResult
	if err := c.do(ctx, http.MethodPost, "/v0/query", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	q := url.Values{}
	if filter.ID != "" {
		q.Set("id", filter.ID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.User != "" {
		q.Set("user", filter.User)
	}
	if filter.StartTime != nil {
		q.Set("start_time", filter.StartTime.UTC().Format(time.RFC3339))
	}
	if filter.FinishTime != nil {
		q.Set("finish_time", filter.FinishTime.UTC().Format(time.RFC3339))
	}
	var out struct {
		Jobs []Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/v0/jobs", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *apiClient) GetJob(ctx context.Context, jobID string) (*Job, error) {
	var out Job
	if err := c.do(ctx, http.MethodGet, "/v0/jobs/"+url.PathEscape(jobID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) GetJobLogs(ctx context.Context, jobIDPrefix string) ([]JobLog, error) {
	var out struct {
		Logs []JobLog `json:"logs"`
	}
	path := "/v0/jobs/" + url.PathEscape(jobIDPrefix) + "/logs"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (c *apiClient) CancelJob(ctx context.Context, jobID string) (*Job, error) {
	var out Job
	path := "/v0/jobs/" + url.PathEscape(jobID) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) Run(ctx context.Context, args RunArgs) (*RunState, error) {
	var out RunState
	if err := c.do(ctx, http.MethodPost, "/v0/runs", nil, args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify interface compliance.
var _ Client = (*apiClient)(nil)
