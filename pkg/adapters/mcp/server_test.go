package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *arbor.SyncEditor) {
	t.Helper()
	ed, err := arbor.New(arbor.WithRootLabel("R"))
	require.NoError(t, err)
	sync := arbor.Synchronized(ed)
	return NewServer(sync, nil), sync
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestDispatchAndAddChild(t *testing.T) {
	s, ed := newTestServer(t)
	ctx := context.Background()
	root := ed.ExportTree().Root.ID

	res, err := s.handleDispatch(ctx, call(map[string]any{"type": "selectionChange", "selected_ids": []any{root}}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var status domain.RouterStatus
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &status))
	assert.Equal(t, []string{root}, status.Selected)

	res, err = s.handleAddChild(ctx, call(map[string]any{"label": "idea"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	var created map[string]string
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &created))

	node, err := ed.Node(created["id"])
	require.NoError(t, err)
	assert.Equal(t, "idea", node.Label)

	res, err = s.handleAddChild(ctx, call(map[string]any{"parent_id": created["id"]}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, 3, ed.ExportTree().Len())
}

func TestToolErrors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleDispatch(ctx, call(map[string]any{"type": "enter", "node_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not_found")

	res, err = s.handleDispatch(ctx, call(map[string]any{"type": "click"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "invalid_operation")

	res, err = s.handleAddChild(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "no_selection")

	res, err = s.handleRelabel(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetTreeAndResources(t *testing.T) {
	s, ed := newTestServer(t)
	ctx := context.Background()
	root := ed.ExportTree().Root.ID

	res, err := s.handleRelabel(ctx, call(map[string]any{"node_id": root, "label": "Top"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = s.handleGetTree(ctx, call(map[string]any{"format": "markdown"}))
	require.NoError(t, err)
	assert.Equal(t, "- Top `"+root+"`\n", text(t, res))

	res, err = s.handleGetTree(ctx, call(map[string]any{"format": "png"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	contents, err := s.readTree(treeURI, "json")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "application/json", tc.MIMEType)
	assert.Contains(t, tc.Text, `"label": "Top"`)
}
