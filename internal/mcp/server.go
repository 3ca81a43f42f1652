// Package mcp exposes the tool catalog over the Model Context Protocol,
// on stdio or streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zikazama/sonar-mcp/internal/common"
	"github.com/zikazama/sonar-mcp/internal/tools"
)

// Server bridges the tool dispatcher to MCP transports.
type Server struct {
	mcpServer  *server.MCPServer
	dispatcher *tools.Dispatcher
	logger     *common.Logger
}

// NewServer creates an MCP server and registers every tool in the
// dispatcher's registry, in registration order.
func NewServer(name, version string, dispatcher *tools.Dispatcher, logger *common.Logger) *Server {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer:  mcpServer,
		dispatcher: dispatcher,
		logger:     logger,
	}

	for _, desc := range dispatcher.Registry().List() {
		mcpServer.AddTool(buildTool(desc), s.handlerFor(desc.Name))
	}

	return s
}

// ServeStdio runs the server on stdin/stdout. Blocks until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP runs the streamable HTTP transport on the given port.
// Blocks until the listener fails.
func (s *Server) ServeHTTP(port string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer,
		server.WithStateLess(true),
	)
	s.logger.Info().Str("port", port).Msg("Starting MCP streamable HTTP")
	return httpServer.Start(":" + port)
}

// buildTool converts a tool descriptor into an MCP tool definition.
// Numeric bounds, enums and defaults are surfaced in the parameter
// description; enforcement happens in the dispatcher.
func buildTool(desc *tools.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}

	for _, p := range desc.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(describeParam(p))}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch p.Type {
		case tools.TypeInt:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case tools.TypeStringArray:
			arrayOpts := append([]mcp.PropertyOption{mcp.WithStringItems()}, propOpts...)
			opts = append(opts, mcp.WithArray(p.Name, arrayOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(desc.Name, opts...)
}

// describeParam appends constraint hints to the parameter description.
func describeParam(p tools.ParamSpec) string {
	desc := p.Description
	var hints []string
	if p.Min != nil && p.Max != nil {
		hints = append(hints, fmt.Sprintf("range %d-%d", *p.Min, *p.Max))
	} else if p.Min != nil {
		hints = append(hints, fmt.Sprintf("minimum %d", *p.Min))
	} else if p.Max != nil {
		hints = append(hints, fmt.Sprintf("maximum %d", *p.Max))
	}
	if len(p.Enum) > 0 {
		hints = append(hints, "allowed values: "+strings.Join(p.Enum, ", "))
	}
	if len(hints) == 0 {
		return desc
	}
	if desc == "" {
		return strings.Join(hints, "; ")
	}
	return desc + " (" + strings.Join(hints, "; ") + ")"
}

// handlerFor adapts a dispatcher invocation to the MCP tool handler shape.
// The envelope is always serialized as text content; IsError mirrors the
// envelope's success flag.
func (s *Server) handlerFor(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env := s.dispatcher.Invoke(ctx, name, request.GetArguments())

		body, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			s.logger.Error().Str("tool", name).Err(err).Msg("Failed to serialize result envelope")
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("failed to serialize result")},
				IsError: true,
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(body))},
			IsError: !env.Success,
		}, nil
	}
}
