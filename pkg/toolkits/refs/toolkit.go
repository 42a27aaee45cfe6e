// Package refs provides the branch, commit, and tag tools.
package refs

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
)

// Toolkit exposes the Git-style versioning surface of the lakehouse:
// branches, commit history, merges, and tags.
type Toolkit struct {
	name    string
	profile string
	dial    bauplan.Dialer
}

// New creates a refs toolkit. profile is the server-wide profile flag;
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
	return "refs"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers the ref tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_branches",
		Description: "List branches in the user's Bauplan data catalog, with optional name substring and user filters.",
	}, t.handleGetBranches)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_branch",
		Description: "Create a new branch in the user's Bauplan data catalog from an existing ref. Branch names follow the format <username.branch_name>.",
	}, t.handleCreateBranch)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "has_branch",
		Description: "Check whether a branch exists in the user's Bauplan data catalog.",
	}, t.handleHasBranch)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "delete_branch",
		Description: "Delete a branch from the user's Bauplan data catalog using a branch name.",
	}, t.handleDeleteBranch)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "merge_branch",
		Description: "Merge a source ref into a target branch in the user's Bauplan data catalog.",
	}, t.handleMergeBranch)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_commits",
		Description: "Retrieve commit history for a ref in the user's Bauplan data catalog, with optional message, author, date range (ISO format YYYY-MM-DD), and limit filters.",
	}, t.handleGetCommits)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_tags",
		Description: "List tags in the user's Bauplan data catalog, with optional name substring filter and limit.",
	}, t.handleGetTags)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_tag",
		Description: "Create a tag pointing at a ref in the user's Bauplan data catalog.",
	}, t.handleCreateTag)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "has_tag",
		Description: "Check whether a tag exists in the user's Bauplan data catalog.",
	}, t.handleHasTag)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "delete_tag",
		Description: "Delete a tag from the user's Bauplan data catalog.",
	}, t.handleDeleteTag)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		"get_branches",
		"create_branch",
		"has_branch",
		"delete_branch",
		"merge_branch",
		"get_commits",
		"get_tags",
		"create_tag",
		"has_tag",
		"delete_tag",
	}
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
}
