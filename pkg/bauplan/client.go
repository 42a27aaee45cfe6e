// Package bauplan provides a typed client for the Bauplan lakehouse API.
//
// The package intentionally stays thin: it binds the subset of the
// commercial REST API that the MCP tools need, and leaves query
// planning, pipeline execution, and storage entirely to the platform.
package bauplan

import (
	"context"
	"time"
)

// Client is the single typed interface through which all lakehouse
// operations are invoked. A fresh client is constructed per tool call
// from a resolved Config; implementations must be safe to discard after
// the call.
type Client interface {
	// Info returns account information for the authenticated user.
	Info(ctx context.Context) (*UserInfo, error)

	// Tables.
	GetTables(ctx context.Context, ref, namespace string) ([]Table, error)
	GetTable(ctx context.Context, ref, table, namespace string) (*TableWithMetadata, error)
	HasTable(ctx context.Context, ref, table, namespace string) (bool, error)
	CreateTable(ctx context.Context, args CreateTableArgs) (*Table, error)
	DeleteTable(ctx context.Context, table, branch, namespace string) error
	PlanTableCreation(ctx context.Context, args CreateTableArgs) (*TableCreatePlan, error)
	ApplyTableCreationPlan(ctx context.Context, planYAML string) (*PlanApplyState, error)
	ImportData(ctx context.Context, args ImportDataArgs) (*ImportState, error)
	RevertTable(ctx context.Context, table, sourceRef, intoBranch string, replace bool) error

	// Branches and commits.
	GetBranches(ctx context.Context, name, user string, limit int) ([]Branch, error)
	HasBranch(ctx context.Context, branch string) (bool, error)
	CreateBranch(ctx context.Context, branch, fromRef string) (*Branch, error)
	DeleteBranch(ctx context.Context, branch string) error
	MergeBranch(ctx context.Context, args MergeArgs) error
	GetCommits(ctx context.Context, ref string, filter CommitFilter) ([]Commit, error)

	// Namespaces.
	GetNamespaces(ctx context.Context, ref, filter string, limit int) ([]Namespace, error)
	HasNamespace(ctx context.Context, ref, namespace string) (bool, error)
	CreateNamespace(ctx context.Context, namespace, branch string) (*Namespace, error)
	DeleteNamespace(ctx context.Context, namespace, branch string) error

	// Tags.
	GetTags(ctx context.Context, filter string, limit int) ([]Tag, error)
	HasTag(ctx context.Context, tag string) (bool, error)
	CreateTag(ctx context.Context, tag, fromRef string) (*Tag, error)
	DeleteTag(ctx context.Context, tag string) error

	// Queries.
	Query(ctx context.Context, query, ref, namespace string) (*QueryResult, error)

	// Jobs and runs.
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, error)
	GetJob(ctx context.Context, jobID string) (*Job, error)
	GetJobLogs(ctx context.Context, jobIDPrefix string) ([]JobLog, error)
	CancelJob(ctx context.Context, jobID string) (*Job, error)
	Run(ctx context.Context, args RunArgs) (*RunState, error)
}

// Dialer constructs a Client from a resolved Config. Toolkits accept a
// Dialer so tests can substitute fakes without a live endpoint.
type Dialer func(cfg Config) (Client, error)

// UserInfo describes the authenticated account.
type UserInfo struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// Table is a versioned dataset within a namespace.
type Table struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// Field is a single column of a table schema.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// TableWithMetadata is a table plus its resolved schema and metadata.
type TableWithMetadata struct {
	Table
	Fields   []Field        `json:"fields"`
	Records  int64          `json:"records,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CreateTableArgs holds the arguments for creating (or planning) a
// table from files discovered at an S3 search URI.
type CreateTableArgs struct {
	Table         string `json:"table"`
	SearchURI     string `json:"search_uri"`
	Branch        string `json:"branch"`
	Namespace     string `json:"namespace,omitempty"`
	PartitionedBy string `json:"partitioned_by,omitempty"`
	Replace       bool   `json:"replace,omitempty"`
}

// TableCreatePlan is the YAML schema plan produced by PlanTableCreation.
type TableCreatePlan struct {
	PlanYAML     string `json:"plan"`
	JobID        string `json:"job_id"`
	CanAutoApply bool   `json:"can_auto_apply"`
}

// PlanApplyState reports the outcome of applying a table creation plan.
type PlanApplyState struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ImportDataArgs holds the arguments for importing data into an
// existing table.
type ImportDataArgs struct {
	Table           string `json:"table"`
	SearchURI       string `json:"search_uri"`
	Branch          string `json:"branch,omitempty"`
	Namespace       string `json:"namespace,omitempty"`
	ContinueOnError bool   `json:"continue_on_error,omitempty"`
	ClientTimeout   int    `json:"client_timeout,omitempty"`
}

// ImportState reports an import job handle.
type ImportState struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// Branch is a mutable pointer to the head commit of a lineage.
type Branch struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// MergeArgs holds the arguments for merging a source ref into a branch.
type MergeArgs struct {
	SourceRef     string `json:"source_ref"`
	IntoBranch    string `json:"into_branch"`
	CommitMessage string `json:"commit_message,omitempty"`
	CommitBody    string `json:"commit_body,omitempty"`
}

// Author identifies the author of a commit.
type Author struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Commit is an immutable snapshot of the lakehouse state.
type Commit struct {
	Hash         string   `json:"hash"`
	Message      string   `json:"message"`
	Author       Author   `json:"author"`
	AuthoredDate string   `json:"authored_date"`
	ParentHashes []string `json:"parent_hashes,omitempty"`
}

// CommitFilter narrows a commit listing.
type CommitFilter struct {
	MessageContains string
	AuthorUsername  string
	AuthorEmail     string
	DateStart       string
	DateEnd         string
	Limit           int
}

// Namespace groups related tables under a common prefix.
type Namespace struct {
	Name string `json:"name"`
}

// Tag is a named label pointing at a commit.
type Tag struct {
	Name string `json:"name"`
	Hash string `json:"hash,omitempty"`
}

// QueryResult holds query rows plus column metadata, already decoded
// into JSON-native values.
type QueryResult struct {
	Columns     []string         `json:"columns"`
	ColumnTypes []string         `json:"column_types"`
	Rows        []map[string]any `json:"rows"`
}

// JobFilter narrows a job listing.
type JobFilter struct {
	ID         string
	Status     string
	User       string
	StartTime  *time.Time
	FinishTime *time.Time
}

// Job is a tracked unit of platform work (run, import, plan apply).
type Job struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	User       string `json:"user"`
	Status     string `json:"status"`
	HumanState string `json:"human_readable_status,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// JobLog is a single log line emitted by a job.
type JobLog struct {
	Message string `json:"message"`
	Stream  string `json:"stream"`
}

// RunArgs holds the arguments for running a pipeline project. Exactly
// one of ProjectDir or ProjectFiles is set: ProjectDir points at a
// project on disk, ProjectFiles carries the project contents inline.
type RunArgs struct {
	ProjectDir    string            `json:"project_dir,omitempty"`
	ProjectFiles  map[string]string `json:"project_files,omitempty"`
	Ref           string            `json:"ref"`
	Namespace     string            `json:"namespace,omitempty"`
	Parameters    map[string]any    `json:"parameters,omitempty"`
	DryRun        bool              `json:"dry_run,omitempty"`
	ClientTimeout int               `json:"client_timeout,omitempty"`
}

// RunState reports a pipeline run job handle.
type RunState struct {
	JobID     string `json:"job_id"`
	JobStatus string `json:"job_status"`
}
