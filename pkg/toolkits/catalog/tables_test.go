package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan/bauplantest"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
)

func newTestToolkit(fake *bauplantest.Fake) (*Toolkit, *bauplantest.Dialer) {
	dialer := bauplantest.NewDialer(fake)
	return New("catalog", "", dialer.Dial), dialer
}

func TestHandleListTables(t *testing.T) {
	fake := &bauplantest.Fake{
		GetTablesFunc: func(_ context.Context, ref, namespace string) ([]bauplan.Table, error) {
			assert.Equal(t, "main", ref)
			assert.Equal(t, "bauplan", namespace)
			return []bauplan.Table{
				{Name: "trips", Namespace: "bauplan"},
				{Name: "zones", Namespace: "bauplan"},
			}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleListTables(context.Background(), nil, listTablesInput{Ref: "main", Namespace: "bauplan"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalCount)
	assert.Equal(t, "trips", out.Tables[0].Name)
}

func TestHandleGetTable(t *testing.T) {
	fake := &bauplantest.Fake{
		GetTableFunc: func(_ context.Context, ref, table, namespace string) (*bauplan.TableWithMetadata, error) {
			assert.Equal(t, "trips", table)
			return &bauplan.TableWithMetadata{
				Table: bauplan.Table{Name: "trips", Namespace: "bauplan"},
				Fields: []bauplan.Field{
					{Name: "pickup_at", Type: "TIMESTAMP"},
					{Name: "fare", Type: "DOUBLE"},
				},
				Records: 1200,
			}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleGetTable(context.Background(), nil, getTableInput{Ref: "main", TableName: "trips"})
	require.NoError(t, err)
	assert.Len(t, out.Table.Fields, 2)
	assert.Equal(t, int64(1200), out.Table.Records)
}

func TestHandleGetSchemaFansOut(t *testing.T) {
	fake := &bauplantest.Fake{
		GetTablesFunc: func(context.Context, string, string) ([]bauplan.Table, error) {
			return []bauplan.Table{{Name: "a"}, {Name: "b"}}, nil
		},
		GetTableFunc: func(_ context.Context, _, table, _ string) (*bauplan.TableWithMetadata, error) {
			return &bauplan.TableWithMetadata{
				Table:  bauplan.Table{Name: table},
				Fields: []bauplan.Field{{Name: "id", Type: "BIGINT"}},
			}, nil
		},
	}
	tk, dialer := newTestToolkit(fake)

	_, out, err := tk.handleGetSchema(context.Background(), nil, getSchemaInput{Ref: "main"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalCount)
	assert.Equal(t, "a", out.Schemas[0].Name)
	assert.Equal(t, "b", out.Schemas[1].Name)
	assert.Equal(t, 1, dialer.DialCount(), "one client serves the whole fan-out")
}

func TestHandleCreateTableRequiresBranch(t *testing.T) {
	tk, dialer := newTestToolkit(&bauplantest.Fake{})

	_, _, err := tk.handleCreateTable(context.Background(), nil, createTableInput{
		Table:     "trips",
		SearchURI: "s3://bucket/*.parquet",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "branch is required")
	assert.Equal(t, 0, dialer.DialCount())
}

func TestHandleCreateTable(t *testing.T) {
	fake := &bauplantest.Fake{
		CreateTableFunc: func(_ context.Context, args bauplan.CreateTableArgs) (*bauplan.Table, error) {
			assert.Equal(t, "alice.ingest", args.Branch)
			return &bauplan.Table{Name: args.Table, Namespace: "bauplan"}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleCreateTable(context.Background(), nil, createTableInput{
		Table:     "trips",
		SearchURI: "s3://bucket/*.parquet",
		Branch:    "alice.ingest",
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "trips", out.TableName)
}

func TestHandleDeleteTablePropagatesError(t *testing.T) {
	fake := &bauplantest.Fake{
		DeleteTableFunc: func(context.Context, string, string, string) error {
			return errors.New("branch not found")
		},
	}
	tk, _ := newTestToolkit(fake)

	_, _, err := tk.handleDeleteTable(context.Background(), nil, deleteTableInput{
		TableName: "trips",
		Branch:    "alice.dev",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "branch not found")
}

func TestHandleImportData(t *testing.T) {
	fake := &bauplantest.Fake{
		ImportDataFunc: func(_ context.Context, args bauplan.ImportDataArgs) (*bauplan.ImportState, error) {
			assert.Equal(t, "s3://bucket/new/*.parquet", args.SearchURI)
			return &bauplan.ImportState{JobID: "job-1", Status: "COMPLETE"}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleImportData(context.Background(), nil, importDataInput{
		Table:     "trips",
		SearchURI: "s3://bucket/new/*.parquet",
		Branch:    "alice.ingest",
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", out.JobID)
}

func TestClientUsesHeaderOverride(t *testing.T) {
	fake := &bauplantest.Fake{
		GetTablesFunc: func(context.Context, string, string) ([]bauplan.Table, error) {
			return nil, nil
		},
	}
	dialer := bauplantest.NewDialer(fake)
	tk := New("catalog", "prod", dialer.Dial)

	ctx := credentials.WithAPIKey(context.Background(), "sk-test-123")
	_, _, err := tk.handleListTables(ctx, nil, listTablesInput{Ref: "main"})
	require.NoError(t, err)

	configs := dialer.Configs()
	require.Len(t, configs, 1)
	assert.Equal(t, "sk-test-123", configs[0].APIKey)
	assert.Empty(t, configs[0].Profile, "header override wins over server profile")
}

func TestClientFallsBackToProfile(t *testing.T) {
	fake := &bauplantest.Fake{
		GetTablesFunc: func(context.Context, string, string) ([]bauplan.Table, error) {
			return nil, nil
		},
	}
	dialer := bauplantest.NewDialer(fake)
	tk := New("catalog", "prod", dialer.Dial)

	_, _, err := tk.handleListTables(context.Background(), nil, listTablesInput{Ref: "main"})
	require.NoError(t, err)

	configs := dialer.Configs()
	require.Len(t, configs, 1)
	assert.Equal(t, bauplan.Config{Profile: "prod"}, configs[0])
}
