package bauplan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("BAUPLAN_API_ENDPOINT", server.URL)
	client, err := NewClient(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	return client
}

func TestClientSendsBearerToken(t *testing.T) {
	var auth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"tables": []any{}})
	}))

	_, err := client.GetTables(context.Background(), "main", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", auth)
}

func TestClientGetTables(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/tables", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "bauplan", r.URL.Query().Get("namespace"))
		json.NewEncoder(w).Encode(map[string]any{
			"tables": []map[string]any{
				{"name": "trips", "namespace": "bauplan"},
			},
		})
	}))

	tables, err := client.GetTables(context.Background(), "main", "bauplan")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "trips", tables[0].Name)
}

func TestClientQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v0/query", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SELECT 1", body["query"])
		assert.Equal(t, "alice.dev", body["ref"])

		json.NewEncoder(w).Encode(QueryResult{
			Columns:     []string{"a"},
			ColumnTypes: []string{"INTEGER"},
			Rows:        []map[string]any{{"a": float64(1)}},
		})
	}))

	result, err := client.Query(context.Background(), "SELECT 1", "alice.dev", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Columns)
	require.Len(t, result.Rows, 1)
}

func TestClientHasBranchNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/branches/alice.dev" {
			json.NewEncoder(w).Encode(map[string]any{"name": "alice.dev"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	exists, err := client.HasBranch(context.Background(), "alice.dev")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.HasBranch(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClientSurfacesUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(apiError{Code: 403, Message: "invalid api key"})
	}))

	_, err := client.GetTables(context.Background(), "main", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Contains(t, err.Error(), "403")
}

func TestClientDeleteBranch(t *testing.T) {
	var method, path string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))

	require.NoError(t, client.DeleteBranch(context.Background(), "alice.tmp"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/v0/branches/alice.tmp", path)
}

func TestClientRun(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/runs", r.URL.Path)

		var args RunArgs
		require.NoError(t, json.NewDecoder(r.Body).Decode(&args))
		assert.True(t, args.DryRun)
		assert.Contains(t, args.ProjectFiles, "bauplan_project.yml")

		json.NewEncoder(w).Encode(RunState{JobID: "job-1", JobStatus: "SUCCESS"})
	}))

	state, err := client.Run(context.Background(), RunArgs{
		ProjectFiles: map[string]string{"bauplan_project.yml": "x"},
		Ref:          "main",
		DryRun:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", state.JobID)
}
