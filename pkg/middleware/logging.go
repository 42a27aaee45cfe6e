// Package middleware provides MCP protocol-level middleware.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const methodToolsCall = "tools/call"

// Logging creates MCP receiving middleware that logs every tool call
// with a request ID, duration, and outcome.
func Logging(logger *slog.Logger) mcp.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != methodToolsCall {
				return next(ctx, method, req)
			}

			requestID := uuid.NewString()
			tool := toolName(req)
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []any{
				"request_id", requestID,
				"tool", tool,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err != nil:
				logger.Error("tool call failed", append(attrs, "error", err)...)
			case isErrorResult(result):
				logger.Warn("tool call returned error result", attrs...)
			default:
				logger.Info("tool call completed", attrs...)
			}

			return result, err
		}
	}
}

// toolName extracts the tool name from a tools/call request, or ""
// when the params are malformed; the handler reports that case itself.
func toolName(req mcp.Request) string {
	params, ok := req.GetParams().(*mcp.CallToolParamsRaw)
	if !ok || params == nil {
		return ""
	}
	return params.Name
}

func isErrorResult(result mcp.Result) bool {
	ctr, ok := result.(*mcp.CallToolResult)
	return ok && ctr != nil && ctr.IsError
}
