package policy

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deleteBranchInput struct {
	Branch string `json:"branch"`
}

type deleteBranchOutput struct {
	Deleted bool `json:"deleted"`
}

// newGuardedServer builds a server with the guard installed and a
// destructive tool whose invocations are counted.
func newGuardedServer(calls *atomic.Int64) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	server.AddReceivingMiddleware(Middleware())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_branch",
		Description: "Delete a branch.",
	}, func(context.Context, *mcp.CallToolRequest, deleteBranchInput) (*mcp.CallToolResult, deleteBranchOutput, error) {
		calls.Add(1)
		return nil, deleteBranchOutput{Deleted: true}, nil
	})

	return server
}

func connectTestClient(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	t1, t2 := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, t1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func TestMiddlewareRejectsProtectedBranch(t *testing.T) {
	var calls atomic.Int64
	session := connectTestClient(t, newGuardedServer(&calls))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "delete_branch",
		Arguments: map[string]any{"branch": "main"},
	})
	require.NoError(t, err)

	require.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "policy violation")
	assert.Contains(t, text.Text, "main")

	assert.Equal(t, int64(0), calls.Load(), "handler must not run for a rejected call")
}

func TestMiddlewareAllowsOtherBranches(t *testing.T) {
	var calls atomic.Int64
	session := connectTestClient(t, newGuardedServer(&calls))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "delete_branch",
		Arguments: map[string]any{"branch": "alice.tmp"},
	})
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Equal(t, int64(1), calls.Load())
}

func TestMiddlewareIgnoresOtherMethods(t *testing.T) {
	var calls atomic.Int64
	session := connectTestClient(t, newGuardedServer(&calls))

	// tools/list passes through the guard untouched.
	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, tools.Tools, 1)
}
