// Package jobs provides the job tracking and pipeline run tools.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
)

// jobTimeLayout matches the time format the job filters accept, UTC.
const jobTimeLayout = "01/02/06 15:04:05"

// validStatuses is the closed set of job status filter values.
var validStatuses = []string{"COMPLETE", "FAIL", "ABORT", "RUNNING"}

// Toolkit exposes job tracking and pipeline runs.
type Toolkit struct {
	name    string
	profile string
	dial    bauplan.Dialer
}

// New creates a jobs toolkit. profile is the server-wide profile flag;
// dial defaults to the real API client.
func New(name, profile string, dial bauplan.Dialer) *Toolkit {
	if dial == nil {
		dial = bauplan.NewClient
	}
	return &Toolkit{name: name, profile: profile, dial: dial}
}

func (t *Toolkit) client(ctx context.Context) (bauplan.Client, error) {
	cfg := credentials.Resolve(t.profile, credentials.APIKeyFromContext(ctx))
	return t.dial(cfg)
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "jobs"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers the job tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_jobs",
		Description: "Retrieve a list of jobs in Bauplan, optionally filtered by job id, status (COMPLETE, FAIL, ABORT, RUNNING), user name, and start/end time (UTC, format '%m/%d/%y %H:%M:%S').",
	}, t.handleListJobs)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_job",
		Description: "Retrieve a single job by its id, including its current status.",
	}, t.handleGetJob)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_job_logs",
		Description: "Retrieve the log lines of a job using a job id prefix.",
	}, t.handleGetJobLogs)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cancel_job",
		Description: "Cancel a running job by its id.",
	}, t.handleCancelJob)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "project_run",
		Description: "Launch a Bauplan pipeline run from a project directory on the server host, returning a job id to poll. Non-dry runs must target a branch other than main.",
	}, t.handleProjectRun)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "code_run",
		Description: "Launch a Bauplan pipeline run from project files provided inline as a map of filename to content, returning a job id to poll. The map must contain bauplan_project.yml; other files must end in .sql or .py. Non-dry runs must target a branch other than main.",
	}, t.handleCodeRun)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		"list_jobs",
		"get_job",
		"get_job_logs",
		"cancel_job",
		"project_run",
		"code_run",
	}
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
}

type listJobsInput struct {
	JobID     string `json:"job_id,omitempty" jsonschema:"optional filter by job id"`
	Status    string `json:"status,omitempty" jsonschema:"optional filter: COMPLETE, FAIL, ABORT or RUNNING"`
	UserName  string `json:"user_name,omitempty" jsonschema:"optional filter by user name"`
	StartTime string `json:"start_time,omitempty" jsonschema:"optional UTC lower bound, format '%m/%d/%y %H:%M:%S', e.g. 09/19/22 13:55:26"`
	EndTime   string `json:"end_time,omitempty" jsonschema:"optional UTC upper bound, format '%m/%d/%y %H:%M:%S'"`
}

type listJobsOutput struct {
	Jobs       []bauplan.Job `json:"jobs"`
	TotalCount int           `json:"total_count"`
}

func (t *Toolkit) handleListJobs(ctx context.Context, _ *mcp.CallToolRequest, in listJobsInput) (*mcp.CallToolResult, listJobsOutput, error) {
	filter := bauplan.JobFilter{ID: in.JobID, User: in.UserName}

	if in.Status != "" {
		status := strings.ToUpper(in.Status)
		if !validStatus(status) {
			return nil, listJobsOutput{}, fmt.Errorf("invalid job status %q: must be one of %s", in.Status, strings.Join(validStatuses, ", "))
		}
		filter.Status = status
	}

	start, err := parseJobTime(in.StartTime)
	if err != nil {
		return nil, listJobsOutput{}, fmt.Errorf("parsing start_time: %w", err)
	}
	filter.StartTime = start

	end, err := parseJobTime(in.EndTime)
	if err != nil {
		return nil, listJobsOutput{}, fmt.Errorf("parsing end_time: %w", err)
	}
	filter.FinishTime = end

	client, err := t.client(ctx)
	if err != nil {
		return nil, listJobsOutput{}, err
	}

	jobs, err := client.ListJobs(ctx, filter)
	if err != nil {
		return nil, listJobsOutput{}, fmt.Errorf("listing jobs: %w", err)
	}
	return nil, listJobsOutput{Jobs: jobs, TotalCount: len(jobs)}, nil
}

func validStatus(status string) bool {
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func parseJobTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(jobTimeLayout, value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

type getJobInput struct {
	JobID string `json:"job_id" jsonschema:"the job id"`
}

type getJobOutput struct {
	Job bauplan.Job `json:"job"`
}

func (t *Toolkit) handleGetJob(ctx context.Context, _ *mcp.CallToolRequest, in getJobInput) (*mcp.CallToolResult, getJobOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getJobOutput{}, err
	}

	job, err := client.GetJob(ctx, in.JobID)
	if err != nil {
		return nil, getJobOutput{}, fmt.Errorf("getting job %s: %w", in.JobID, err)
	}
	return nil, getJobOutput{Job: *job}, nil
}

type getJobLogsInput struct {
	JobIDPrefix string `json:"job_id_prefix" jsonschema:"the job id prefix to fetch logs for"`
}

type getJobLogsOutput struct {
	Logs       []bauplan.JobLog `json:"logs"`
	TotalCount int              `json:"total_count"`
}

func (t *Toolkit) handleGetJobLogs(ctx context.Context, _ *mcp.CallToolRequest, in getJobLogsInput) (*mcp.CallToolResult, getJobLogsOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getJobLogsOutput{}, err
	}

	logs, err := client.GetJobLogs(ctx, in.JobIDPrefix)
	if err != nil {
		return nil, getJobLogsOutput{}, fmt.Errorf("getting logs for job prefix %s: %w", in.JobIDPrefix, err)
	}
	return nil, getJobLogsOutput{Logs: logs, TotalCount: len(logs)}, nil
}

type cancelJobInput struct {
	JobID string `json:"job_id" jsonschema:"the id of the job to cancel"`
}

type cancelJobOutput struct {
	Canceled bool        `json:"canceled"`
	Job      bauplan.Job `json:"job"`
}

func (t *Toolkit) handleCancelJob(ctx context.Context, _ *mcp.CallToolRequest, in cancelJobInput) (*mcp.CallToolResult, cancelJobOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, cancelJobOutput{}, err
	}

	job, err := client.CancelJob(ctx, in.JobID)
	if err != nil {
		return nil, cancelJobOutput{}, fmt.Errorf("canceling job %s: %w", in.JobID, err)
	}
	return nil, cancelJobOutput{Canceled: true, Job: *job}, nil
}
