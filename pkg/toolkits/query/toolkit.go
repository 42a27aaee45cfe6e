// Package query provides the read-only SQL query tools.
package query

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
)

// Toolkit exposes SELECT-only SQL queries against the lakehouse.
type Toolkit struct {
	name    string
	profile string
	dial    bauplan.Dialer
}

// New creates a query toolkit. profile is the server-wide profile
// flag; dial defaults to the real API client.
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
	return "query"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers the query tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "run_query",
		Description: "Execute a SQL SELECT query (DuckDB dialect) on the user's Bauplan data catalog, returning rows plus column metadata. Optional ref and namespace.",
	}, t.handleRunQuery)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "run_query_to_csv",
		Description: "Execute a SQL SELECT query (DuckDB dialect) on the user's Bauplan data catalog and return the result as CSV text. Optional ref and namespace.",
	}, t.handleRunQueryToCSV)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{"run_query", "run_query_to_csv"}
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
}

type queryInput struct {
	Query     string `json:"query" jsonschema:"SQL SELECT statement in the DuckDB dialect"`
	Ref       string `json:"ref,omitempty" jsonschema:"optional branch name or commit hash to query at"`
	Namespace string `json:"namespace,omitempty" jsonschema:"optional namespace, defaults to bauplan"`
}

type queryMetadata struct {
	RowCount    int      `json:"row_count"`
	ColumnNames []string `json:"column_names"`
	ColumnTypes []string `json:"column_types"`
	QueryTime   string   `json:"query_time"`
	Query       string   `json:"query"`
}

type queryOutput struct {
	Status   string           `json:"status"`
	Data     []map[string]any `json:"data"`
	Metadata queryMetadata    `json:"metadata"`
}

func (t *Toolkit) handleRunQuery(ctx context.Context, _ *mcp.CallToolRequest, in queryInput) (*mcp.CallToolResult, queryOutput, error) {
	result, err := t.execute(ctx, in)
	if err != nil {
		return nil, queryOutput{}, err
	}

	return nil, queryOutput{
		Status: "success",
		Data:   result.Rows,
		Metadata: queryMetadata{
			RowCount:    len(result.Rows),
			ColumnNames: result.Columns,
			ColumnTypes: result.ColumnTypes,
			QueryTime:   time.Now().UTC().Format(time.RFC3339),
			Query:       in.Query,
		},
	}, nil
}

type csvOutput struct {
	Status   string `json:"status"`
	CSV      string `json:"csv"`
	RowCount int    `json:"row_count"`
}

func (t *Toolkit) handleRunQueryToCSV(ctx context.Context, _ *mcp.CallToolRequest, in queryInput) (*mcp.CallToolResult, csvOutput, error) {
	result, err := t.execute(ctx, in)
	if err != nil {
		return nil, csvOutput{}, err
	}

	text, err := toCSV(result)
	if err != nil {
		return nil, csvOutput{}, fmt.Errorf("encoding csv: %w", err)
	}
	return nil, csvOutput{Status: "success", CSV: text, RowCount: len(result.Rows)}, nil
}

// execute validates the statement locally, then delegates to the
// lakehouse client. Validation failures never reach the platform.
func (t *Toolkit) execute(ctx context.Context, in queryInput) (*bauplan.QueryResult, error) {
	if err := validateReadOnly(in.Query); err != nil {
		return nil, err
	}

	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.Query(ctx, in.Query, in.Ref, in.Namespace)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

func toCSV(result *bauplan.QueryResult) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(result.Columns); err != nil {
		return "", err
	}
	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			if v, ok := row[col]; ok && v != nil {
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}
