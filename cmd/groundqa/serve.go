package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"groundqa/internal/mcp"
	"groundqa/internal/server"
)

const shutdownTimeout = 10 * time.Second

type serveCommander struct {
	listen string
	warm   bool
}

const serveLongDesc string = `Serve the question-answering HTTP API.

Routes:
  POST /api/ask      {"question": "..."} -> {"answer": "...", "sources": [...]}
  GET  /api/status   corpus state and overview
  GET  /ping         liveness
  /mcp               MCP "ask" tool over streamable HTTP (server.mcp: true)

The corpus is loaded on the first question unless --warm is given.`

const serveShortDesc string = "Serve the HTTP API"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, os.Stderr)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				a.cfg.Server.Listen = cmder.listen
			}
			return cmder.run(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", ":3000", "Address for the HTTP server to listen on")
	cmd.Flags().BoolVar(&cmder.warm, "warm", false, "Load and embed the corpus before accepting requests")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.warm {
		if _, err := a.service.Warm(ctx); err != nil {
			return fmt.Errorf("warming corpus: %w", err)
		}
	}

	cfg := server.Config{
		ListenAddr:   a.cfg.Server.Listen,
		AllowOrigins: a.cfg.Server.AllowOrigins,
	}
	if a.cfg.Server.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Service: a.service,
			Logger:  a.logger.With("component", "mcp"),
		})
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
		cfg.MCPHandler = mcpServer.Handler()
	}
	srv := server.NewServer(cfg, a.service, a.logger.With("component", "server"))

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		a.logger.Info("received signal, shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
