// Package catalog provides the table and namespace tools.
package catalog

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
)

// Toolkit exposes the lakehouse catalog: tables, schemas, table
// creation and import, and namespaces.
type Toolkit struct {
	name    string
	profile string
	dial    bauplan.Dialer
}

// New creates a catalog toolkit. profile is the server-wide profile
// flag; dial defaults to the real API client.
func New(name, profile string, dial bauplan.Dialer) *Toolkit {
	if dial == nil {
		dial = bauplan.NewClient
	}
	return &Toolkit{name: name, profile: profile, dial: dial}
}

// client resolves the credential for this call and dials a fresh
// client. The config lives for exactly one tool invocation.
func (t *Toolkit) client(ctx context.Context) (bauplan.Client, error) {
	cfg := credentials.Resolve(t.profile, credentials.APIKeyFromContext(ctx))
	return t.dial(cfg)
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "catalog"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers the catalog tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_tables",
		Description: "List all tables in the user's Bauplan data catalog at a given ref, optionally filtered by namespace.",
	}, t.handleListTables)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_table",
		Description: "Retrieve the schema and metadata of a table in the user's Bauplan data catalog using a ref and a table name.",
	}, t.handleGetTable)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_schema",
		Description: "Retrieve the schema of every table at a given ref in the user's Bauplan data catalog.",
	}, t.handleGetSchema)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "has_table",
		Description: "Check whether a table exists at a given ref in the user's Bauplan data catalog.",
	}, t.handleHasTable)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_table",
		Description: "Create an empty Iceberg table from parquet files at an S3 search URI, inferring the schema from the files. The table is not populated; use import_data afterwards.",
	}, t.handleCreateTable)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "delete_table",
		Description: "Delete a table from a branch of the user's Bauplan data catalog.",
	}, t.handleDeleteTable)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "plan_table_creation",
		Description: "Create a table import plan from an S3 location. Returns a YAML schema plan and a job id; use apply_table_creation_plan to resolve schema conflicts described in the plan.",
	}, t.handlePlanTableCreation)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "apply_table_creation_plan",
		Description: "Apply a table creation plan produced by plan_table_creation, after resolving any schema conflicts in the YAML. Returns a job id for tracking.",
	}, t.handleApplyTableCreationPlan)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "import_data",
		Description: "Import data into an existing table in the user's Bauplan data catalog from an S3 search URI. Returns a job id for tracking.",
	}, t.handleImportData)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "revert_table",
		Description: "Revert a table in a target branch to its state at a source ref.",
	}, t.handleRevertTable)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_namespaces",
		Description: "List namespaces at a given ref in the user's Bauplan data catalog, with optional substring filter and limit.",
	}, t.handleGetNamespaces)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_namespace",
		Description: "Create a new namespace in a branch of the user's Bauplan data catalog.",
	}, t.handleCreateNamespace)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "has_namespace",
		Description: "Check whether a namespace exists at a given ref in the user's Bauplan data catalog.",
	}, t.handleHasNamespace)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "delete_namespace",
		Description: "Delete a namespace from a branch of the user's Bauplan data catalog.",
	}, t.handleDeleteNamespace)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		"list_tables",
		"get_table",
		"get_schema",
		"has_table",
		"create_table",
		"delete_table",
		"plan_table_creation",
		"apply_table_creation_plan",
		"import_data",
		"revert_table",
		"get_namespaces",
		"create_namespace",
		"has_namespace",
		"delete_namespace",
	}
}

// Close releases resources. Clients are per-call, so there is nothing
// to release.
func (*Toolkit) Close() error {
	return nil
}
