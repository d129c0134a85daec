package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/inet"
	"github.com/aretw0/inet/pkg/domain"
	"github.com/aretw0/inet/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NetsURI lists the stored nets.
const NetsURI = "inet://nets"

// LoadResponse summarises a freshly loaded net.
type LoadResponse struct {
	Net    string         `json:"net" jsonschema_description:"Id the net is stored under"`
	Root   domain.AgentID `json:"root" jsonschema_description:"Arena index of the root agent"`
	Agents int            `json:"agents" jsonschema_description:"Number of agents in the arena"`
}

type netArgs struct {
	NetID string `json:"net_id"`
}

type loadArgs struct {
	NetID      string `json:"net_id"`
	Definition string `json:"definition"`
}

type inspectArgs struct {
	NetID string `json:"net_id"`
	Agent string `json:"agent"`
}

// Server exposes a NetEngine as an MCP server.
type Server struct {
	engine    ports.NetEngine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.NetEngine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("inet-mcp", strings.TrimSpace(inet.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	netID := mcp.WithString("net_id", mcp.Required(), mcp.Description("Id of the stored net"))

	s.mcpServer.AddTool(mcp.NewTool("load_net",
		mcp.WithDescription("Load a net and store it under net_id. Without a definition the net of that name is read from the library."),
		netID,
		mcp.WithString("definition", mcp.Description(`JSON definition: {"root": "...", "agents": [{"name", "kind"}], "wires": [{"from": "a.0", "to": "b.0"}]}`)),
		mcp.WithOutputSchema[LoadResponse](),
	), mcp.NewStructuredToolHandler(s.handleLoadNet))

	s.mcpServer.AddTool(mcp.NewTool("reduce_net",
		mcp.WithDescription("Run one sweep of the reduction driver over the net."),
		netID,
		mcp.WithOutputSchema[domain.PassReport](),
	), mcp.NewStructuredToolHandler(s.handleReduceNet))

	s.mcpServer.AddTool(mcp.NewTool("normalize_net",
		mcp.WithDescription("Reduce the net until no rewrite applies."),
		netID,
		mcp.WithOutputSchema[domain.Report](),
	), mcp.NewStructuredToolHandler(s.handleNormalizeNet))

	s.mcpServer.AddTool(mcp.NewTool("inspect_agent",
		mcp.WithDescription("Return the kind and port peers of one agent."),
		netID,
		mcp.WithString("agent", mcp.Required(), mcp.Description("Agent name from the definition, or its arena index")),
		mcp.WithOutputSchema[domain.AgentView](),
	), mcp.NewStructuredToolHandler(s.handleInspectAgent))

	s.mcpServer.AddTool(mcp.NewTool("render_net",
		mcp.WithDescription("Render the part of the net reachable from its root as a Mermaid diagram."),
		netID,
	), s.handleRenderNet)
}

func (s *Server) handleLoadNet(ctx context.Context, _ mcp.CallToolRequest, args loadArgs) (LoadResponse, error) {
	if args.NetID == "" {
		return LoadResponse{}, errors.New("net_id is required")
	}

	var (
		snap *domain.Snapshot
		err  error
	)
	if strings.TrimSpace(args.Definition) == "" {
		snap, err = s.engine.LoadNamed(ctx, args.NetID)
	} else {
		var def domain.Definition
		if err := json.Unmarshal([]byte(args.Definition), &def); err != nil {
			return LoadResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
		}
		snap, err = s.engine.Load(ctx, args.NetID, &def)
	}
	if err != nil {
		s.logger.Warn("MCP load_net failed", "net", args.NetID, "err", err)
		return LoadResponse{}, err
	}
	return LoadResponse{Net: snap.ID, Root: snap.Root, Agents: len(snap.Agents)}, nil
}

func (s *Server) handleReduceNet(ctx context.Context, _ mcp.CallToolRequest, args netArgs) (domain.PassReport, error) {
	return s.engine.Reduce(ctx, args.NetID)
}

func (s *Server) handleNormalizeNet(ctx context.Context, _ mcp.CallToolRequest, args netArgs) (domain.Report, error) {
	return s.engine.Normalize(ctx, args.NetID)
}

func (s *Server) handleInspectAgent(ctx context.Context, _ mcp.CallToolRequest, args inspectArgs) (domain.AgentView, error) {
	return s.engine.Inspect(ctx, args.NetID, args.Agent)
}

func (s *Server) handleRenderNet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("net_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.engine.Render(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(NetsURI, "Stored nets",
		mcp.WithMIMEType("application/json"),
	), s.handleNetsResource)
}

func (s *Server) handleNetsResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.engine.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nets: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	jsonBytes, _ := json.Marshal(ids)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NetsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
