package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/internal/logging"
	"github.com/aretw0/inet/internal/testutils"
	"github.com/aretw0/inet/pkg/adapters/memory"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	loader, err := memory.NewLoader(testutils.Duplication())
	require.NoError(t, err)
	eng, err := inet.New("", inet.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(eng, logging.NewNop())
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestServer_LoadReduceInspect(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)

	def, err := json.Marshal(testutils.Annihilation())
	require.NoError(t, err)

	loaded, err := s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{NetID: "pair", Definition: string(def)})
	require.NoError(t, err)
	assert.Equal(t, LoadResponse{Net: "pair", Root: 0, Agents: 3}, loaded)

	pass, err := s.handleReduceNet(ctx, mcp.CallToolRequest{}, netArgs{NetID: "pair"})
	require.NoError(t, err)
	assert.Equal(t, 1, pass.Applied[domain.RuleAnnihilate])

	root, err := s.handleInspectAgent(ctx, mcp.CallToolRequest{}, inspectArgs{NetID: "pair", Agent: "root"})
	require.NoError(t, err)
	assert.Equal(t, domain.Port(0, 2), root.Peer(domain.Aux1))

	_, err = s.handleInspectAgent(ctx, mcp.CallToolRequest{}, inspectArgs{NetID: "pair", Agent: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUnknownAgent)
}

func TestServer_LoadFromLibraryAndNormalize(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)

	loaded, err := s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{NetID: "duplication"})
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Agents)

	report, err := s.handleNormalizeNet(ctx, mcp.CallToolRequest{}, netArgs{NetID: "duplication"})
	require.NoError(t, err)
	assert.True(t, report.NormalForm)
	assert.Equal(t, 3, report.Rewrites)
}

func TestServer_LoadErrors(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)

	_, err := s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{})
	assert.Error(t, err)

	_, err = s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{NetID: "x", Definition: "{"})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{NetID: "unknown"})
	assert.ErrorIs(t, err, domain.ErrNetNotFound)
}

func TestServer_RenderNet(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)
	_, err := s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{NetID: "duplication"})
	require.NoError(t, err)

	res, err := s.handleRenderNet(ctx, toolRequest(map[string]any{"net_id": "duplication"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph LR")

	res, err = s.handleRenderNet(ctx, toolRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "net_id is required")

	res, err = s.handleRenderNet(ctx, toolRequest(map[string]any{"net_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_NetsResource(t *testing.T) {
	ctx := context.Background()
	s := newServer(t)

	contents, err := s.handleNetsResource(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "[]", contents[0].(mcp.TextResourceContents).Text)

	_, err = s.handleLoadNet(ctx, mcp.CallToolRequest{}, loadArgs{NetID: "duplication"})
	require.NoError(t, err)

	contents, err = s.handleNetsResource(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	res := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, NetsURI, res.URI)
	assert.JSONEq(t, `["duplication"]`, res.Text)
}
