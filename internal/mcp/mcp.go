// Package mcp exposes question answering as a Model Context Protocol tool.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"groundqa/internal/domain"
	"groundqa/internal/version"
)

var (
	askToolName    = "ask"
	askDescription = "Answer a question using only the indexed official sources. Returns the answer text and the sources offered as context, each flagged when the answer cites it."
)

type Config struct {
	// Service answers questions.
	Service domain.RAGService

	// Logger is the configured slog logger.
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed sources"`
}

// NewServer creates a new MCP server with the ask tool.
func NewServer(c Config) (*Server, error) {
	if c.Service == nil {
		return nil, errors.New("service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{config: c}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "groundqa",
			Version: version.Version,
		},
		&mcp.ServerOptions{},
	)
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        askToolName,
		Description: askDescription,
	}, s.handleAsk)
	s.mcpServer = mcpServer

	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)
	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, domain.Answer, error) {
	s.config.Logger.Debug("MCP ask request", "question", input.Question)

	ans, err := s.config.Service.Ask(ctx, input.Question)
	if err != nil {
		s.config.Logger.Error("MCP ask failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer question: %v", err)},
			},
		}, domain.Answer{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: ans.Answer},
		},
	}, ans, nil
}
