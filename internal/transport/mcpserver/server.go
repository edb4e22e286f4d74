package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ansible-lint-server-go/internal/domain/dispatch"
	"ansible-lint-server-go/internal/platform/config"
	platformerrors "ansible-lint-server-go/internal/platform/errors"
	"ansible-lint-server-go/internal/platform/logging"
)

const serverVersion = "1.0.0"

// Service exposes the registered operations as MCP tools over SSE. Every
// tool call funnels through the same dispatcher as the HTTP surface, so the
// envelope, concurrency and size semantics are identical on both.
type Service struct {
	logger     *logging.Logger
	config     *config.Config
	dispatcher *dispatch.Dispatcher
	mcpServer  *server.MCPServer
	sse        *server.SSEServer
}

// NewService builds the MCP server and registers one tool per operation.
func NewService(
	cfg *config.Config,
	logger *logging.Logger,
	dispatcher *dispatch.Dispatcher,
) (*Service, error) {
	if cfg == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "mcpserver.new", "config is required")
	}
	if logger == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "mcpserver.new", "logger is required")
	}
	if dispatcher == nil {
		return nil, platformerrors.New(platformerrors.KindConfig, "mcpserver.new", "dispatcher is required")
	}

	s := &Service{
		logger:     logger,
		config:     cfg,
		dispatcher: dispatcher,
	}

	s.mcpServer = server.NewMCPServer(
		"ansible-lint-server",
		serverVersion,
		server.WithToolCapabilities(false),
	)

	for _, def := range dispatcher.Definitions() {
		s.mcpServer.AddTool(s.toolFromDefinition(def), s.handlerFor(def.Name))
	}

	basePath := cfg.MCP.BasePath
	s.sse = server.NewSSEServer(
		s.mcpServer,
		server.WithSSEEndpoint(basePath+"/sse"),
		server.WithMessageEndpoint(basePath+"/message"),
	)

	return s, nil
}

// Register mounts the SSE and message endpoints on the shared engine.
func (s *Service) Register(ctx context.Context, engine *gin.Engine) error {
	basePath := s.config.MCP.BasePath
	engine.GET(basePath+"/sse", gin.WrapH(s.sse.SSEHandler()))
	engine.POST(basePath+"/message", gin.WrapH(s.sse.MessageHandler()))

	s.logger.InfoTag("MCP", "MCP SSE endpoints mounted at %s", basePath)
	return nil
}

// toolFromDefinition maps an operation definition onto the MCP tool schema.
func (s *Service) toolFromDefinition(def dispatch.Definition) mcp.Tool {
	return mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       def.InputSchema.Type,
			Properties: def.InputSchema.Properties,
			Required:   def.InputSchema.Required,
		},
	}
}

// handlerFor adapts one named operation to the MCP call contract. Routing
// failures surface as MCP tool errors; every other outcome is the envelope
// serialized as text, soft failures included.
func (s *Service) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		envelope, err := s.dispatcher.Dispatch(ctx, name, request.GetArguments())
		if err != nil {
			s.logger.WarnTag("MCP", "tool %s rejected: %v", name, err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(envelope)
		if err != nil {
			s.logger.ErrorTag("MCP", "failed to encode envelope for %s: %v", name, err)
			return mcp.NewToolResultError("internal encoding error"), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
