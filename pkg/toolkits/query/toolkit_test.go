package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan/bauplantest"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
)

func newTestToolkit(fake *bauplantest.Fake) (*Toolkit, *bauplantest.Dialer) {
	dialer := bauplantest.NewDialer(fake)
	return New("query", "", dialer.Dial), dialer
}

func TestHandleRunQuery(t *testing.T) {
	fake := &bauplantest.Fake{
		QueryFunc: func(_ context.Context, query, ref, namespace string) (*bauplan.QueryResult, error) {
			assert.Equal(t, "SELECT city, count(*) AS n FROM trips GROUP BY city", query)
			assert.Equal(t, "alice.dev", ref)
			return &bauplan.QueryResult{
				Columns:     []string{"city", "n"},
				ColumnTypes: []string{"VARCHAR", "BIGINT"},
				Rows: []map[string]any{
					{"city": "NYC", "n": float64(42)},
					{"city": "SF", "n": float64(7)},
				},
			}, nil
		},
	}
	tk, dialer := newTestToolkit(fake)

	_, out, err := tk.handleRunQuery(context.Background(), nil, queryInput{
		Query: "SELECT city, count(*) AS n FROM trips GROUP BY city",
		Ref:   "alice.dev",
	})
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.Len(t, out.Data, 2)
	assert.Equal(t, 2, out.Metadata.RowCount)
	assert.Equal(t, []string{"city", "n"}, out.Metadata.ColumnNames)
	assert.Equal(t, 1, dialer.DialCount())
}

func TestHandleRunQueryRejectsMutationWithoutDialing(t *testing.T) {
	tk, dialer := newTestToolkit(&bauplantest.Fake{})

	_, _, err := tk.handleRunQuery(context.Background(), nil, queryInput{
		Query: "DROP TABLE trips",
	})
	require.Error(t, err)
	assert.Equal(t, 0, dialer.DialCount(), "invalid queries must not reach the platform")
}

func TestHandleRunQueryHeaderOverride(t *testing.T) {
	fake := &bauplantest.Fake{
		QueryFunc: func(context.Context, string, string, string) (*bauplan.QueryResult, error) {
			return &bauplan.QueryResult{Columns: []string{"a"}}, nil
		},
	}
	tk, dialer := newTestToolkit(fake)

	ctx := credentials.WithAPIKey(context.Background(), "sk-test-123")
	_, _, err := tk.handleRunQuery(ctx, nil, queryInput{Query: "SELECT 1"})
	require.NoError(t, err)

	configs := dialer.Configs()
	require.Len(t, configs, 1)
	assert.Equal(t, bauplan.Config{APIKey: "sk-test-123"}, configs[0])
}

func TestHandleRunQueryToCSV(t *testing.T) {
	fake := &bauplantest.Fake{
		QueryFunc: func(context.Context, string, string, string) (*bauplan.QueryResult, error) {
			return &bauplan.QueryResult{
				Columns:     []string{"name", "n"},
				ColumnTypes: []string{"VARCHAR", "BIGINT"},
				Rows: []map[string]any{
					{"name": "a", "n": float64(1)},
					{"name": "b", "n": nil},
				},
			}, nil
		},
	}
	tk, _ := newTestToolkit(fake)

	_, out, err := tk.handleRunQueryToCSV(context.Background(), nil, queryInput{Query: "SELECT 1"})
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.Equal(t, 2, out.RowCount)
	assert.Equal(t, "name,n\na,1\nb,\n", out.CSV)
}
