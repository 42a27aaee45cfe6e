// Package guidance provides the instruction dispatch and user info tools.
package guidance

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
	"github.com/bauplanlabs/mcp-bauplan/pkg/instructions"
)

// Toolkit exposes workflow instructions and the authenticated user identity.
type Toolkit struct {
	name    string
	profile string
	dial    bauplan.Dialer
	catalog *instructions.Catalog
}

// New creates a guidance toolkit. profile is the server-wide profile flag;
// dial defaults to the real API client.
func New(name, profile string, dial bauplan.Dialer) (*Toolkit, error) {
	if dial == nil {
		dial = bauplan.NewClient
	}
	catalog, err := instructions.Load()
	if err != nil {
		return nil, fmt.Errorf("loading instruction catalog: %w", err)
	}
	return &Toolkit{name: name, profile: profile, dial: dial, catalog: catalog}, nil
}

func (t *Toolkit) client(ctx context.Context) (bauplan.Client, error) {
	cfg := credentials.Resolve(t.profile, credentials.APIKeyFromContext(ctx))
	return t.dial(cfg)
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "guidance"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers the guidance tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_instructions",
		Description: "ALWAYS call this tool FIRST before any other Bauplan tool. Returns detailed instructions for a given use case. Valid use cases: " + strings.Join(t.catalog.ValidKeys(), ", ") + ".",
	}, t.handleGetInstructions)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_info",
		Description: "Return the username and full name of the authenticated Bauplan user.",
	}, t.handleGetUserInfo)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{"get_instructions", "get_user_info"}
}

// Close releases resources.
func (*Toolkit) Close() error {
	return nil
}

type getInstructionsInput struct {
	UseCase string `json:"use_case" jsonschema:"the workflow to get instructions for: data, ingest (alias wap), pipeline, repair, test, or sdk"`
}

type getInstructionsOutput struct {
	UseCase      string `json:"use_case"`
	Instructions string `json:"instructions"`
}

func (t *Toolkit) handleGetInstructions(_ context.Context, _ *mcp.CallToolRequest, in getInstructionsInput) (*mcp.CallToolResult, getInstructionsOutput, error) {
	text, err := t.catalog.Lookup(in.UseCase)
	if err != nil {
		return nil, getInstructionsOutput{}, err
	}
	return nil, getInstructionsOutput{UseCase: strings.ToLower(strings.TrimSpace(in.UseCase)), Instructions: text}, nil
}

type getUserInfoInput struct{}

type getUserInfoOutput struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func (t *Toolkit) handleGetUserInfo(ctx context.Context, _ *mcp.CallToolRequest, _ getUserInfoInput) (*mcp.CallToolResult, getUserInfoOutput, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, getUserInfoOutput{}, err
	}

	info, err := client.Info(ctx)
	if err != nil {
		return nil, getUserInfoOutput{}, fmt.Errorf("getting user info: %w", err)
	}
	return nil, getUserInfoOutput{Username: info.Username, FullName: info.FullName}, nil
}
