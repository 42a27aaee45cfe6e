package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/bauplanlabs/mcp-bauplan/pkg/credentials"
	"github.com/bauplanlabs/mcp-bauplan/pkg/health"
)

// Transport names accepted by Serve.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the server on the named transport until ctx is cancelled.
// HTTP transports bind to addr; stdio ignores it.
func (s *Server) Serve(ctx context.Context, transport, addr string) error {
	switch transport {
	case TransportStdio:
		return s.mcp.Run(ctx, &mcp.StdioTransport{})
	case TransportSSE:
		handler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
		return s.serveHTTP(ctx, addr, handler)
	case TransportStreamableHTTP:
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
		return s.serveHTTP(ctx, addr, handler)
	default:
		return fmt.Errorf("unknown transport %q: must be one of %s, %s, %s",
			transport, TransportStdio, TransportSSE, TransportStreamableHTTP)
	}
}

// serveHTTP mounts the MCP handler behind the credential-extracting
// middleware, adds health endpoints, and shuts down gracefully when ctx
// is cancelled.
func (s *Server) serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	checker := health.NewChecker()

	mux := http.NewServeMux()
	mux.Handle("/", credentials.HTTPMiddleware(handler))
	mux.HandleFunc("/healthz", checker.Liveness)
	mux.HandleFunc("/readyz", checker.Readiness)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		checker.SetReady()
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		checker.SetDraining()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
