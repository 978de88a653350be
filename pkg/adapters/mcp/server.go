package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/export"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	treeURI    = "arbor://tree"
	diagramURI = "arbor://tree/mermaid"
)

// Editor defines the editor operations exposed to agents.
// *arbor.SyncEditor satisfies it.
type Editor interface {
	Dispatch(ev domain.Event) error
	AddChildToSelection(spec domain.NodeSpec) (string, error)
	AddChild(parentID string, spec domain.NodeSpec) (string, error)
	RemoveSelection() error
	Relabel(id, label string) error
	Reset() error
	CurrentSelection() ([]domain.Node, error)
	Snapshot() (domain.Tree, domain.InteractionEvent)
	Status() domain.RouterStatus
}

// Server wraps an Editor and exposes it as an MCP Server.
type Server struct {
	editor    Editor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(editor Editor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		editor:    editor,
		logger:    logger,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: get_tree
	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the current tree with hover and selection state."),
		mcp.WithString("format", mcp.Description("Output format: json (default), yaml, mermaid or markdown")),
	), s.handleGetTree)

	// TOOL: dispatch_event
	s.mcpServer.AddTool(mcp.NewTool("dispatch_event",
		mcp.WithDescription("Send a raw Renderer event (enter, leave, click, selectionChange) to the editor."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Event type"),
			mcp.Enum(string(domain.EventEnter), string(domain.EventLeave), string(domain.EventClick), string(domain.EventSelectionChange))),
		mcp.WithString("node_id", mcp.Description("Target node ID (required for enter, leave and click)")),
		mcp.WithArray("selected_ids", mcp.Description("New selection for selectionChange; empty clears it"), mcp.WithStringItems()),
	), s.handleDispatch)

	// TOOL: add_child
	s.mcpServer.AddTool(mcp.NewTool("add_child",
		mcp.WithDescription("Append a new child node. Without parent_id the child goes under the single selected node."),
		mcp.WithString("parent_id", mcp.Description("Parent node ID (optional)")),
		mcp.WithString("label", mcp.Description("Label of the new node (defaults to its ID)")),
	), s.handleAddChild)

	// TOOL: relabel_node
	s.mcpServer.AddTool(mcp.NewTool("relabel_node",
		mcp.WithDescription("Change the label of a node. An empty label restores the default."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
		mcp.WithString("label", mcp.Description("New label")),
	), s.handleRelabel)

	// TOOL: remove_selection
	s.mcpServer.AddTool(mcp.NewTool("remove_selection",
		mcp.WithDescription("Remove the single selected node and its whole subtree."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.editor.RemoveSelection(); err != nil {
			return s.toolError("remove_selection", err), nil
		}
		return mcp.NewToolResultText("removed"), nil
	})

	// TOOL: current_selection
	s.mcpServer.AddTool(mcp.NewTool("current_selection",
		mcp.WithDescription("List the selected nodes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		nodes, err := s.editor.CurrentSelection()
		if err != nil {
			return s.toolError("current_selection", err), nil
		}
		return jsonResult(nodes), nil
	})

	// TOOL: reset_tree
	s.mcpServer.AddTool(mcp.NewTool("reset_tree",
		mcp.WithDescription("Discard every edit and rebuild the initial tree."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.editor.Reset(); err != nil {
			return s.toolError("reset_tree", err), nil
		}
		return mcp.NewToolResultText("reset"), nil
	})
}

func (s *Server) handleGetTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return s.toolError("get_tree", err), nil
	}
	tree, interaction := s.editor.Snapshot()
	out, err := export.String(format, tree, &interaction)
	if err != nil {
		return s.toolError("get_tree", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := map[string]any{"type": request.GetString("type", "")}
	args := request.GetArguments()
	if id, ok := args["node_id"]; ok {
		raw["nodeId"] = id
	}
	if ids, ok := args["selected_ids"]; ok {
		raw["selectedIds"] = ids
	}

	cmd, err := dto.Decode(raw)
	if err != nil {
		return s.toolError("dispatch_event", err), nil
	}
	ev, err := cmd.Event()
	if err != nil {
		return s.toolError("dispatch_event", err), nil
	}
	if err := s.editor.Dispatch(ev); err != nil {
		return s.toolError("dispatch_event", err), nil
	}
	return jsonResult(s.editor.Status()), nil
}

func (s *Server) handleAddChild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec := domain.NodeSpec{Label: request.GetString("label", "")}

	var id string
	var err error
	if parent := request.GetString("parent_id", ""); parent != "" {
		id, err = s.editor.AddChild(parent, spec)
	} else {
		id, err = s.editor.AddChildToSelection(spec)
	}
	if err != nil {
		return s.toolError("add_child", err), nil
	}
	return jsonResult(map[string]string{"id": id}), nil
}

func (s *Server) handleRelabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.editor.Relabel(id, request.GetString("label", "")); err != nil {
		return s.toolError("relabel_node", err), nil
	}
	return mcp.NewToolResultText("relabeled"), nil
}

func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, domain.ErrInvariantViolation) {
		s.logger.Error("MCP tool failed", "tool", tool, "error", err)
	} else {
		s.logger.Debug("MCP tool rejected", "tool", tool, "error", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", err.Error(), observability.ErrorKind(err)))
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://tree
	s.mcpServer.AddResource(mcp.NewResource(treeURI, "Current Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.readTree(treeURI, export.FormatJSON)
	})

	// EXPOSE: arbor://tree/mermaid
	s.mcpServer.AddResource(mcp.NewResource(diagramURI, "Current Tree (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.readTree(diagramURI, export.FormatMermaid)
	})
}

func (s *Server) readTree(uri string, format export.Format) ([]mcp.ResourceContents, error) {
	tree, interaction := s.editor.Snapshot()
	out, err := export.String(format, tree, &interaction)
	if err != nil {
		return nil, fmt.Errorf("failed to export tree: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: format.ContentType(),
			Text:     out,
		},
	}, nil
}
