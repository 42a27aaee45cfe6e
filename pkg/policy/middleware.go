package policy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Middleware returns MCP receiving middleware that applies the
// protected-branch guard to every tools/call request. Violations are
// reported as tool errors; the wrapped handler is never invoked, so the
// lakehouse client is never constructed for a rejected call.
func Middleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}

			tool, args, err := callArguments(req)
			if err != nil {
				return violationResult(fmt.Sprintf("invalid request: %v", err)), nil
			}

			if err := Check(tool, args); err != nil {
				return violationResult(err.Error()), nil
			}

			return next(ctx, method, req)
		}
	}
}

// callArguments extracts the tool name and decoded arguments from a
// tools/call request.
func callArguments(req mcp.Request) (string, map[string]any, error) {
	params, ok := req.GetParams().(*mcp.CallToolParamsRaw)
	if !ok || params == nil {
		return "", nil, fmt.Errorf("missing call params")
	}
	if params.Name == "" {
		return "", nil, fmt.Errorf("missing tool name")
	}

	args := map[string]any{}
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return "", nil, fmt.Errorf("decoding arguments: %w", err)
		}
	}
	return params.Name, args, nil
}

func violationResult(msg string) mcp.Result {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
