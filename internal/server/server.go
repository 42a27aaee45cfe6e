// Package server assembles the Bauplan MCP server: toolkits, middleware,
// and the transport front ends.
package server

import (
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
	"github.com/bauplanlabs/mcp-bauplan/pkg/middleware"
	"github.com/bauplanlabs/mcp-bauplan/pkg/policy"
	"github.com/bauplanlabs/mcp-bauplan/pkg/registry"
	"github.com/bauplanlabs/mcp-bauplan/pkg/toolkits/catalog"
	"github.com/bauplanlabs/mcp-bauplan/pkg/toolkits/guidance"
	"github.com/bauplanlabs/mcp-bauplan/pkg/toolkits/jobs"
	"github.com/bauplanlabs/mcp-bauplan/pkg/toolkits/query"
	"github.com/bauplanlabs/mcp-bauplan/pkg/toolkits/refs"
)

// Version is set at build time.
var Version = "dev"

// serverName identifies this server to MCP clients.
const serverName = "mcp-bauplan"

// instructions is advertised to clients during initialization.
const instructions = "The Bauplan MCP Server exposes operations for interacting with a Bauplan" +
	" data lakehouse. The main use cases fall into five major types: 1) descriptive data tasks," +
	" 2) data ingestion from S3 using the Write-Audit-Publish (WAP) pattern," +
	" 3) writing a data transformation pipeline as a Bauplan project and running it," +
	" 4) repairing broken pipelines," +
	" 5) creating and managing data expectations and quality tests." +
	" On top of these major scenarios, you can use the full set of tools to accomplish any task you need," +
	" in some cases by combining multiple tool calls." +
	"\nIMPORTANT: if you (the model) have been configured to provide a custom header 'Bauplan', add the" +
	" header with the content in every call to the tools. Otherwise, you can assume the Bauplan API token is" +
	" already set, so no need to use it." +
	" Once the nature of the task is understood, specific instructions and guidelines for each" +
	" use case can be obtained by calling the get_instructions tool with the appropriate use_case argument:" +
	" 1) 'data' for descriptive data tasks, 2) 'ingest' for data ingestion from S3," +
	" 3) 'pipeline' for writing and running a data transformation pipeline," +
	" 4) 'repair' for repairing broken pipelines," +
	" 5) 'test' for creating and managing data expectations and quality tests, and" +
	" 6) 'sdk' for a reference of the Bauplan Python SDK." +
	" get_instructions returns a detailed prompt that you SHOULD consider as you plan next steps:" +
	" you can call get_instructions multiple times if needed." +
	"\nIMPORTANT: most operations require user information, which can be retrieved at the beginning of" +
	" reasoning by calling the get_user_info tool."

// Options configures the assembled server.
type Options struct {
	// Profile selects a named profile from the Bauplan config file.
	// Empty means the host default profile.
	Profile string

	// Dial overrides the lakehouse client constructor, nil for the
	// real API client. Toolkits dial a fresh client per call.
	Dial bauplan.Dialer

	// Logger receives structured request logs. Nil disables logging.
	Logger *slog.Logger
}

// Server couples the MCP server with its toolkit registry.
type Server struct {
	mcp      *mcp.Server
	registry *registry.Registry
	logger   *slog.Logger
}

// New assembles the MCP server: all five toolkits registered, request
// logging and the protected-branch guard installed as receiving
// middleware so violations are rejected before any handler runs.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	s.AddReceivingMiddleware(middleware.Logging(logger))
	s.AddReceivingMiddleware(policy.Middleware())

	reg := registry.NewRegistry()

	guidanceToolkit, err := guidance.New("guidance", opts.Profile, opts.Dial)
	if err != nil {
		return nil, fmt.Errorf("creating guidance toolkit: %w", err)
	}

	toolkits := []registry.Toolkit{
		catalog.New("catalog", opts.Profile, opts.Dial),
		refs.New("refs", opts.Profile, opts.Dial),
		query.New("query", opts.Profile, opts.Dial),
		jobs.New("jobs", opts.Profile, opts.Dial),
		guidanceToolkit,
	}
	for _, tk := range toolkits {
		if err := reg.Register(tk); err != nil {
			return nil, fmt.Errorf("registering %s toolkit: %w", tk.Kind(), err)
		}
	}
	reg.RegisterAllTools(s)

	logger.Info("server assembled",
		"name", serverName,
		"version", Version,
		"tools", len(reg.AllTools()),
	)

	return &Server{mcp: s, registry: reg, logger: logger}, nil
}

// MCP returns the underlying MCP server, for transports and tests.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Tools returns the names of all registered tools.
func (s *Server) Tools() []string {
	return s.registry.AllTools()
}

// Close releases toolkit resources.
func (s *Server) Close() error {
	return s.registry.Close()
}
