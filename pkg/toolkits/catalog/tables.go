package catalog

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
)

type listTablesInput struct {
	Ref       string `json:"ref" jsonschema:"branch name or commit hash (@ plus 64 hex characters) to list tables at"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace filter"`
}

type listTablesOutput struct {
	Tables     []bauplan.Table `json:"tables"`
	TotalCount int             `json:"total_count"`
}

func (t *Toolkit) handleListTables(ctx context.Context, _ *mcp.CallToolRequest, in listTablesInput) (*mcp.CallToolResult, listTablesOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, listTablesOutput{}, err
	}

	tables, err := client.GetTables(ctx, in.Ref, in.Namespace)
	if err != nil {
		return nil, listTablesOutput{}, fmt.Errorf("listing tables: %w", err)
	}
	return nil, listTablesOutput{Tables: tables, TotalCount: len(tables)}, nil
}

type getTableInput struct {
	Ref       string `json:"ref" jsonschema:"branch name or commit hash the table is read at"`
	TableName string `json:"table_name" jsonschema:"name of the table"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace, defaults to bauplan"`
}

type getTableOutput struct {
	Table bauplan.TableWithMetadata `json:"table"`
}

func (t *Toolkit) handleGetTable(ctx context.Context, _ *mcp.CallToolRequest, in getTableInput) (*mcp.CallToolResult, getTableOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getTableOutput{}, err
	}

	table, err := client.GetTable(ctx, in.Ref, in.TableName, in.Namespace)
	if err != nil {
		return nil, getTableOutput{}, fmt.Errorf("getting table %s: %w", in.TableName, err)
	}
	return nil, getTableOutput{Table: *table}, nil
}

type getSchemaInput struct {
	Ref       string `json:"ref" jsonschema:"branch name or commit hash to read schemas at"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace filter"`
}

type getSchemaOutput struct {
	Schemas    []bauplan.TableWithMetadata `json:"schemas"`
	TotalCount int                         `json:"total_count"`
}

// handleGetSchema returns the schema of every table at the ref. It is
// a fan-out over get_table so the assistant gets all columns in one
// call.
func (t *Toolkit) handleGetSchema(ctx context.Context, _ *mcp.CallToolRequest, in getSchemaInput) (*mcp.CallToolResult, getSchemaOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getSchemaOutput{}, err
	}

	tables, err := client.GetTables(ctx, in.Ref, in.Namespace)
	if err != nil {
		return nil, getSchemaOutput{}, fmt.Errorf("listing tables: %w", err)
	}

	schemas := make([]bauplan.TableWithMetadata, 0, len(tables))
	for _, table := range tables {
		withMeta, err := client.GetTable(ctx, in.Ref, table.Name, table.Namespace)
		if err != nil {
			return nil, getSchemaOutput{}, fmt.Errorf("getting schema of %s: %w", table.Name, err)
		}
		schemas = append(schemas, *withMeta)
	}
	return nil, getSchemaOutput{Schemas: schemas, TotalCount: len(schemas)}, nil
}

type hasTableInput struct {
	Ref       string `json:"ref" jsonschema:"branch name or commit hash to check at"`
	TableName string `json:"table_name" jsonschema:"name of the table"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace"`
}

type hasTableOutput struct {
	Exists bool   `json:"exists"`
	Table  string `json:"table"`
}

func (t *Toolkit) handleHasTable(ctx context.Context, _ *mcp.CallToolRequest, in hasTableInput) (*mcp.CallToolResult, hasTableOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, hasTableOutput{}, err
	}

	exists, err := client.HasTable(ctx, in.Ref, in.TableName, in.Namespace)
	if err != nil {
		return nil, hasTableOutput{}, fmt.Errorf("checking table %s: %w", in.TableName, err)
	}
	return nil, hasTableOutput{Exists: exists, Table: in.TableName}, nil
}

type createTableInput struct {
	Table         string `json:"table" jsonschema:"name of the table to create"`
	SearchURI     string `json:"search_uri" jsonschema:"S3 URI to search for parquet files"`
	Branch        string `json:"branch" jsonschema:"branch to create the table on; must not be main"`
	Namespace     string `json:"namespace,omitempty" jsonschema:"optional namespace, defaults to bauplan"`
	PartitionedBy string `json:"partitioned_by,omitempty" jsonschema:"optional partitioning column"`
	Replace       bool   `json:"replace,omitempty" jsonschema:"replace the table if it already exists"`
}

type createTableOutput struct {
	TableName string `json:"table_name"`
	Namespace string `json:"namespace,omitempty"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

func (t *Toolkit) handleCreateTable(ctx context.Context, _ *mcp.CallToolRequest, in createTableInput) (*mcp.CallToolResult, createTableOutput, error) {
	if in.Branch == "" {
		return nil, createTableOutput{}, fmt.Errorf("branch is required; tables are created on a development branch, never on main")
	}

	client, err := t.client(ctx)
	if err != nil {
		return nil, createTableOutput{}, err
	}

	table, err := client.CreateTable(ctx, bauplan.CreateTableArgs{
		Table:         in.Table,
		SearchURI:     in.SearchURI,
		Branch:        in.Branch,
		Namespace:     in.Namespace,
		PartitionedBy: in.PartitionedBy,
		Replace:       in.Replace,
	})
	if err != nil {
		return nil, createTableOutput{}, fmt.Errorf("creating table %s: %w", in.Table, err)
	}

	return nil, createTableOutput{
		TableName: table.Name,
		Namespace: table.Namespace,
		Success:   true,
		Message:   fmt.Sprintf("table %s created in namespace %s", table.Name, table.Namespace),
	}, nil
}

type deleteTableInput struct {
	TableName string `json:"table_name" jsonschema:"name of the table to delete"`
	Branch    string `json:"branch" jsonschema:"branch to delete the table from; must not be main"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace"`
}

type deleteTableOutput struct {
	Deleted bool   `json:"deleted"`
	Table   string `json:"table"`
	Message string `json:"message,omitempty"`
}

func (t *Toolkit) handleDeleteTable(ctx context.Context, _ *mcp.CallToolRequest, in deleteTableInput) (*mcp.CallToolResult, deleteTableOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, deleteTableOutput{}, err
	}

	if err := client.DeleteTable(ctx, in.TableName, in.Branch, in.Namespace); err != nil {
		return nil, deleteTableOutput{}, fmt.Errorf("deleting table %s: %w", in.TableName, err)
	}
	return nil, deleteTableOutput{
		Deleted: true,
		Table:   in.TableName,
		Message: fmt.Sprintf("table %s deleted from branch %s", in.TableName, in.Branch),
	}, nil
}

type planTableCreationInput struct {
	Table     string `json:"table" jsonschema:"name of the table to plan"`
	SearchURI string `json:"search_uri" jsonschema:"S3 URI to search for parquet files"`
	Branch    string `json:"branch" jsonschema:"branch the plan targets"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace"`
}

type planTableCreationOutput struct {
	PlanYAML     string `json:"plan"`
	JobID        string `json:"job_id"`
	CanAutoApply bool   `json:"can_auto_apply"`
}

func (t *Toolkit) handlePlanTableCreation(ctx context.Context, _ *mcp.CallToolRequest, in planTableCreationInput) (*mcp.CallToolResult, planTableCreationOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, planTableCreationOutput{}, err
	}

	plan, err := client.PlanTableCreation(ctx, bauplan.CreateTableArgs{
		Table:     in.Table,
		SearchURI: in.SearchURI,
		Branch:    in.Branch,
		Namespace: in.Namespace,
	})
	if err != nil {
		return nil, planTableCreationOutput{}, fmt.Errorf("planning table creation for %s: %w", in.Table, err)
	}
	return nil, planTableCreationOutput{
		PlanYAML:     plan.PlanYAML,
		JobID:        plan.JobID,
		CanAutoApply: plan.CanAutoApply,
	}, nil
}

type applyTableCreationPlanInput struct {
	PlanYAML string `json:"plan" jsonschema:"the YAML schema plan, with conflicts resolved"`
}

type applyTableCreationPlanOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func (t *Toolkit) handleApplyTableCreationPlan(ctx context.Context, _ *mcp.CallToolRequest, in applyTableCreationPlanInput) (*mcp.CallToolResult, applyTableCreationPlanOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, applyTableCreationPlanOutput{}, err
	}

	state, err := client.ApplyTableCreationPlan(ctx, in.PlanYAML)
	if err != nil {
		return nil, applyTableCreationPlanOutput{}, fmt.Errorf("applying table creation plan: %w", err)
	}
	return nil, applyTableCreationPlanOutput{JobID: state.JobID, Status: state.Status}, nil
}

type importDataInput struct {
	Table           string `json:"table" jsonschema:"name of the existing table to import into"`
	SearchURI       string `json:"search_uri" jsonschema:"S3 URI to search for data files"`
	Branch          string `json:"branch,omitempty" jsonschema:"branch to import on; must not be main"`
	Namespace       string `json:"namespace,omitempty" jsonschema:"optional namespace, defaults to bauplan"`
	ContinueOnError bool   `json:"continue_on_error,omitempty" jsonschema:"continue when individual files fail"`
	ClientTimeout   int    `json:"client_timeout,omitempty" jsonschema:"timeout in seconds, defaults to 120"`
}

type importDataOutput struct {
	TableName string `json:"table_name"`
	JobID     string `json:"job_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

func (t *Toolkit) handleImportData(ctx context.Context, _ *mcp.CallToolRequest, in importDataInput) (*mcp.CallToolResult, importDataOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, importDataOutput{}, err
	}

	state, err := client.ImportData(ctx, bauplan.ImportDataArgs{
		Table:           in.Table,
		SearchURI:       in.SearchURI,
		Branch:          in.Branch,
		Namespace:       in.Namespace,
		ContinueOnError: in.ContinueOnError,
		ClientTimeout:   in.ClientTimeout,
	})
	if err != nil {
		return nil, importDataOutput{}, fmt.Errorf("importing data into %s: %w", in.Table, err)
	}
	return nil, importDataOutput{
		TableName: in.Table,
		JobID:     state.JobID,
		Success:   true,
		Message:   fmt.Sprintf("data import started for table %s with job_id %s", in.Table, state.JobID),
	}, nil
}

type revertTableInput struct {
	Table      string `json:"table" jsonschema:"name of the table to revert"`
	SourceRef  string `json:"source_ref" jsonschema:"ref holding the desired table state"`
	IntoBranch string `json:"into_branch" jsonschema:"branch to write the reverted table to; must not be main"`
	Replace    bool   `json:"replace,omitempty" jsonschema:"replace the table if it already exists"`
}

type revertTableOutput struct {
	TableName  string `json:"table_name"`
	SourceRef  string `json:"source_ref"`
	IntoBranch string `json:"into_branch"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

func (t *Toolkit) handleRevertTable(ctx context.Context, _ *mcp.CallToolRequest, in revertTableInput) (*mcp.CallToolResult, revertTableOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, revertTableOutput{}, err
	}

	if err := client.RevertTable(ctx, in.Table, in.SourceRef, in.IntoBranch, in.Replace); err != nil {
		return nil, revertTableOutput{}, fmt.Errorf("reverting table %s: %w", in.Table, err)
	}
	return nil, revertTableOutput{
		TableName:  in.Table,
		SourceRef:  in.SourceRef,
		IntoBranch: in.IntoBranch,
		Success:    true,
		Message:    fmt.Sprintf("table %s reverted to %s on %s", in.Table, in.SourceRef, in.IntoBranch),
	}, nil
}
