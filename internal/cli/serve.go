package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/arbor/pkg/adapters/mcp"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Options
	// Port overrides http.port from the configuration when non-zero.
	Port int
}

// Serve runs the HTTP adapter until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	ed, metrics, cfg, logger, err := createEditor(opts.Options)
	if err != nil {
		return err
	}

	port := cfg.HTTP.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	sync := arbor.Synchronized(ed)
	serverOpts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
	if metrics != nil {
		serverOpts = append(serverOpts, httpAdapter.WithMetrics(metrics))
	}
	srv := httpAdapter.NewServer(sync, serverOpts...)
	sync.AddRenderer(srv.Publisher)

	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Options
	Transport string
	Port      int
}

// ServeMCP runs the MCP adapter on the requested transport.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	ed, _, _, logger, err := createEditor(opts.Options)
	if err != nil {
		return err
	}
	srv := mcpAdapter.NewServer(arbor.Synchronized(ed), logger)

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting arbor MCP Server (Stdio)...")
		return srv.ServeStdio()
	case "sse":
		return srv.ServeSSE(ctx, opts.Port)
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
}
