// Package server exposes the question-answering service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"groundqa/internal/domain"
	"groundqa/internal/service"
)

const requestIDHeader = "X-Request-ID"

// Service is what the HTTP layer needs from the request path.
type Service interface {
	domain.RAGService
	Status() service.Status
}

// Config configures the HTTP server.
type Config struct {
	ListenAddr   string
	AllowOrigins []string

	// MCPHandler, when set, is mounted at /mcp.
	MCPHandler http.Handler
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

type askRequest struct {
	Question string `json:"question"`
}

// Server is the HTTP front end.
type Server struct {
	config  Config
	service Service
	logger  *slog.Logger
	app     *fiber.App
}

// NewServer creates a server and registers its routes.
func NewServer(config Config, svc Service, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		service: svc,
		logger:  logger,
		app:     app,
	}

	origins := "*"
	if len(config.AllowOrigins) > 0 {
		origins = strings.Join(config.AllowOrigins, ",")
	}
	app.Use(s.requestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/ping", s.handlePing)
	app.Get("/api/status", s.handleStatus)
	app.Post("/api/ask", s.handleAsk)
	app.All("/api/ask", s.handleAskMethodNotAllowed)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting HTTP server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDHeader, id)

	start := time.Now()
	err := c.Next()
	s.logger.Info("request",
		"id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.service.Status())
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req askRequest
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Pergunta vazia"})
		}
	}

	ans, err := s.service.Ask(c.UserContext(), req.Question)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= fiber.StatusInternalServerError {
			s.logger.Error("ask failed", "error", err, "id", c.GetRespHeader(requestIDHeader))
		}
		return c.Status(status).JSON(ErrorResponse{Error: msg})
	}
	return c.JSON(ans)
}

func (s *Server) handleAskMethodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(ErrorResponse{Error: "Method not allowed (use POST)"})
}

// errorStatus maps request-path errors to an HTTP status and client message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuestion):
		return fiber.StatusBadRequest, "Pergunta vazia"
	case errors.Is(err, domain.ErrCorpusUnavailable):
		return fiber.StatusInternalServerError, "Sem documentos indexados"
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}
