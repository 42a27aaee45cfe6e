// Package bauplantest provides a configurable fake lakehouse client for
// toolkit and server tests.
package bauplantest

import (
	"context"
	"fmt"
	"sync"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
)

// Fake implements bauplan.Client with per-method function hooks. Methods
// without a hook return a "not implemented" error so a test that reaches
// an unexpected call fails loudly instead of silently succeeding.
type Fake struct {
	InfoFunc                   func(ctx context.Context) (*bauplan.UserInfo, error)
	GetTablesFunc              func(ctx context.Context, ref, namespace string) ([]bauplan.Table, error)
	GetTableFunc               func(ctx context.Context, ref, table, namespace string) (*bauplan.TableWithMetadata, error)
	HasTableFunc               func(ctx context.Context, ref, table, namespace string) (bool, error)
	CreateTableFunc            func(ctx context.Context, args bauplan.CreateTableArgs) (*bauplan.Table, error)
	DeleteTableFunc            func(ctx context.Context, table, branch, namespace string) error
	PlanTableCreationFunc      func(ctx context.Context, args bauplan.CreateTableArgs) (*bauplan.TableCreatePlan, error)
	ApplyTableCreationPlanFunc func(ctx context.Context, planYAML string) (*bauplan.PlanApplyState, error)
	ImportDataFunc             func(ctx context.Context, args bauplan.ImportDataArgs) (*bauplan.ImportState, error)
	RevertTableFunc            func(ctx context.Context, table, sourceRef, intoBranch string, replace bool) error
	GetBranchesFunc            func(ctx context.Context, name, user string, limit int) ([]bauplan.Branch, error)
	HasBranchFunc              func(ctx context.Context, branch string) (bool, error)
	CreateBranchFunc           func(ctx context.Context, branch, fromRef string) (*bauplan.Branch, error)
	DeleteBranchFunc           func(ctx context.Context, branch string) error
	MergeBranchFunc            func(ctx context.Context, args bauplan.MergeArgs) error
	GetCommitsFunc             func(ctx context.Context, ref string, filter bauplan.CommitFilter) ([]bauplan.Commit, error)
	GetNamespacesFunc          func(ctx context.Context, ref, filter string, limit int) ([]bauplan.Namespace, error)
	HasNamespaceFunc           func(ctx context.Context, ref, namespace string) (bool, error)
	CreateNamespaceFunc        func(ctx context.Context, namespace, branch string) (*bauplan.Namespace, error)
	DeleteNamespaceFunc        func(ctx context.Context, namespace, branch string) error
	GetTagsFunc                func(ctx context.Context, filter string, limit int) ([]bauplan.Tag, error)
	HasTagFunc                 func(ctx context.Context, tag string) (bool, error)
	CreateTagFunc              func(ctx context.Context, tag, fromRef string) (*bauplan.Tag, error)
	DeleteTagFunc              func(ctx context.Context, tag string) error
	QueryFunc                  func(ctx context.Context, query, ref, namespace string) (*bauplan.QueryResult, error)
	ListJobsFunc               func(ctx context.Context, filter bauplan.JobFilter) ([]bauplan.Job, error)
	GetJobFunc                 func(ctx context.Context, jobID string) (*bauplan.Job, error)
	GetJobLogsFunc             func(ctx context.Context, jobIDPrefix string) ([]bauplan.JobLog, error)
	CancelJobFunc              func(ctx context.Context, jobID string) (*bauplan.Job, error)
	RunFunc                    func(ctx context.Context, args bauplan.RunArgs) (*bauplan.RunState, error)
}

var _ bauplan.Client = (*Fake)(nil)

func notImplemented(method string) error {
	return fmt.Errorf("bauplantest: %s not implemented", method)
}

func (f *Fake) Info(ctx context.Context) (*bauplan.UserInfo, error) {
	if f.InfoFunc == nil {
		return nil, notImplemented("Info")
	}
	return f.InfoFunc(ctx)
}

func (f *Fake) GetTables(ctx context.Context, ref, namespace string) ([]bauplan.Table, error) {
	if f.GetTablesFunc == nil {
		return nil, notImplemented("GetTables")
	}
	return f.GetTablesFunc(ctx, ref, namespace)
}

func (f *Fake) GetTable(ctx context.Context, ref, table, namespace string) (*bauplan.TableWithMetadata, error) {
	if f.GetTableFunc == nil {
		return nil, notImplemented("GetTable")
	}
	return f.GetTableFunc(ctx, ref, table, namespace)
}

func (f *Fake) HasTable(ctx context.Context, ref, table, namespace string) (bool, error) {
	if f.HasTableFunc == nil {
		return false, notImplemented("HasTable")
	}
	return f.HasTableFunc(ctx, ref, table, namespace)
}

func (f *Fake) CreateTable(ctx context.Context, args bauplan.CreateTableArgs) (*bauplan.Table, error) {
	if f.CreateTableFunc == nil {
		return nil, notImplemented("CreateTable")
	}
	return f.CreateTableFunc(ctx, args)
}

func (f *Fake) DeleteTable(ctx context.Context, table, branch, namespace string) error {
	if f.DeleteTableFunc == nil {
		return notImplemented("DeleteTable")
	}
	return f.DeleteTableFunc(ctx, table, branch, namespace)
}

func (f *Fake) PlanTableCreation(ctx context.Context, args bauplan.CreateTableArgs) (*bauplan.TableCreatePlan, error) {
	if f.PlanTableCreationFunc == nil {
		return nil, notImplemented("PlanTableCreation")
	}
	return f.PlanTableCreationFunc(ctx, args)
}

func (f *Fake) ApplyTableCreationPlan(ctx context.Context, planYAML string) (*bauplan.PlanApplyState, error) {
	if f.ApplyTableCreationPlanFunc == nil {
		return nil, notImplemented("ApplyTableCreationPlan")
	}
	return f.ApplyTableCreationPlanFunc(ctx, planYAML)
}

func (f *Fake) ImportData(ctx context.Context, args bauplan.ImportDataArgs) (*bauplan.ImportState, error) {
	if f.ImportDataFunc == nil {
		return nil, notImplemented("ImportData")
	}
	return f.ImportDataFunc(ctx, args)
}

func (f *Fake) RevertTable(ctx context.Context, table, sourceRef, intoBranch string, replace bool) error {
	if f.RevertTableFunc == nil {
		return notImplemented("RevertTable")
	}
	return f.RevertTableFunc(ctx, table, sourceRef, intoBranch, replace)
}

func (f *Fake) GetBranches(ctx context.Context, name, user string, limit int) ([]bauplan.Branch, error) {
	if f.GetBranchesFunc == nil {
		return nil, notImplemented("GetBranches")
	}
	return f.GetBranchesFunc(ctx, name, user, limit)
}

func (f *Fake) HasBranch(ctx context.Context, branch string) (bool, error) {
	if f.HasBranchFunc == nil {
		return false, notImplemented("HasBranch")
	}
	return f.HasBranchFunc(ctx, branch)
}

func (f *Fake) CreateBranch(ctx context.Context, branch, fromRef string) (*bauplan.Branch, error) {
	if f.CreateBranchFunc == nil {
		return nil, notImplemented("CreateBranch")
	}
	return f.CreateBranchFunc(ctx, branch, fromRef)
}

func (f *Fake) DeleteBranch(ctx context.Context, branch string) error {
	if f.DeleteBranchFunc == nil {
		return notImplemented("DeleteBranch")
	}
	return f.DeleteBranchFunc(ctx, branch)
}

func (f *Fake) MergeBranch(ctx context.Context, args bauplan.MergeArgs) error {
	if f.MergeBranchFunc == nil {
		return notImplemented("MergeBranch")
	}
	return f.MergeBranchFunc(ctx, args)
}

func (f *Fake) GetCommits(ctx context.Context, ref string, filter bauplan.CommitFilter) ([]bauplan.Commit, error) {
	if f.GetCommitsFunc == nil {
		return nil, notImplemented("GetCommits")
	}
	return f.GetCommitsFunc(ctx, ref, filter)
}

func (f *Fake) GetNamespaces(ctx context.Context, ref, filter string, limit int) ([]bauplan.Namespace, error) {
	if f.GetNamespacesFunc == nil {
		return nil, notImplemented("GetNamespaces")
	}
	return f.GetNamespacesFunc(ctx, ref, filter, limit)
}

func (f *Fake) HasNamespace(ctx context.Context, ref, namespace string) (bool, error) {
	if f.HasNamespaceFunc == nil {
		return false, notImplemented("HasNamespace")
	}
	return f.HasNamespaceFunc(ctx, ref, namespace)
}

func (f *Fake) CreateNamespace(ctx context.Context, namespace, branch string) (*bauplan.Namespace, error) {
	if f.CreateNamespaceFunc == nil {
		return nil, notImplemented("CreateNamespace")
	}
	return f.CreateNamespaceFunc(ctx, namespace, branch)
}

func (f *Fake) DeleteNamespace(ctx context.Context, namespace, branch string) error {
	if f.DeleteNamespaceFunc == nil {
		return notImplemented("DeleteNamespace")
	}
	return f.DeleteNamespaceFunc(ctx, namespace, branch)
}

func (f *Fake) GetTags(ctx context.Context, filter string, limit int) ([]bauplan.Tag, error) {
	if f.GetTagsFunc == nil {
		return nil, notImplemented("GetTags")
	}
	return f.GetTagsFunc(ctx, filter, limit)
}

func (f *Fake) HasTag(ctx context.Context, tag string) (bool, error) {
	if f.HasTagFunc == nil {
		return false, notImplemented("HasTag")
	}
	return f.HasTagFunc(ctx, tag)
}

func (f *Fake) CreateTag(ctx context.Context, tag, fromRef string) (*bauplan.Tag, error) {
	if f.CreateTagFunc == nil {
		return nil, notImplemented("CreateTag")
	}
	return f.CreateTagFunc(ctx, tag, fromRef)
}

func (f *Fake) DeleteTag(ctx context.Context, tag string) error {
	if f.DeleteTagFunc == nil {
		return notImplemented("DeleteTag")
	}
	return f.DeleteTagFunc(ctx, tag)
}

func (f *Fake) Query(ctx context.Context, query, ref, namespace string) (*bauplan.QueryResult, error) {
	if f.QueryFunc == nil {
		return nil, notImplemented("Query")
	}
	return f.QueryFunc(ctx, query, ref, namespace)
}

func (f *Fake) ListJobs(ctx context.Context, filter bauplan.JobFilter) ([]bauplan.Job, error) {
	if f.ListJobsFunc == nil {
		return nil, notImplemented("ListJobs")
	}
	return f.ListJobsFunc(ctx, filter)
}

func (f *Fake) GetJob(ctx context.Context, jobID string) (*bauplan.Job, error) {
	if f.GetJobFunc == nil {
		return nil, notImplemented("GetJob")
	}
	return f.GetJobFunc(ctx, jobID)
}

func (f *Fake) GetJobLogs(ctx context.Context, jobIDPrefix string) ([]bauplan.JobLog, error) {
	if f.GetJobLogsFunc == nil {
		return nil, notImplemented("GetJobLogs")
	}
	return f.GetJobLogsFunc(ctx, jobIDPrefix)
}

func (f *Fake) CancelJob(ctx context.Context, jobID string) (*bauplan.Job, error) {
	if f.CancelJobFunc == nil {
		return nil, notImplemented("CancelJob")
	}
	return f.CancelJobFunc(ctx, jobID)
}

func (f *Fake) Run(ctx context.Context, args bauplan.RunArgs) (*bauplan.RunState, error) {
	if f.RunFunc == nil {
		return nil, notImplemented("Run")
	}
	return f.RunFunc(ctx, args)
}

// Dialer records every dial and hands out the given fake. It tracks the
// configs it was dialed with so tests can assert credential resolution.
type Dialer struct {
	mu      sync.Mutex
	fake    *Fake
	configs []bauplan.Config
}

// NewDialer wraps a fake in a recording dialer.
func NewDialer(fake *Fake) *Dialer {
	return &Dialer{fake: fake}
}

// Dial satisfies bauplan.Dialer.
func (d *Dialer) Dial(cfg bauplan.Config) (bauplan.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.configs = append(d.configs, cfg)
	return d.fake, nil
}

// Configs returns the configs passed to Dial, in call order.
func (d *Dialer) Configs() []bauplan.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]bauplan.Config, len(d.configs))
	copy(out, d.configs)
	return out
}

// DialCount returns how many times Dial was invoked.
func (d *Dialer) DialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.configs)
}
