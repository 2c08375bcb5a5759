// Package mcp exposes the symbol index, outline extraction, and lint
// diagnostics over the Model Context Protocol on stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"matscope/internal/workspace"
)

// MCPServer bundles the MCP protocol server with the workspace watcher that
// keeps the index current while serving.
type MCPServer struct {
	engine     *workspace.Engine
	watcher    *workspace.Watcher
	mcp        *server.MCPServer
	instanceID string
}

// NewMCPServer creates a stdio MCP server over an already-constructed engine.
// rootDir is watched for file changes for the lifetime of Serve; an empty
// rootDir disables watching and the index only changes through tool calls.
func NewMCPServer(engine *workspace.Engine, rootDir, version string) (*MCPServer, error) {
	instanceID := uuid.New().String()

	mcpServer := server.NewMCPServer(
		"matscope",
		version,
		server.WithToolCapabilities(true),
	)

	AddDocumentSymbolsTool(mcpServer, engine)
	AddSearchSymbolsTool(mcpServer, engine)
	AddOutlineTool(mcpServer, engine)
	AddLintTool(mcpServer, engine)
	AddStatusTool(mcpServer, engine, instanceID, version)

	s := &MCPServer{
		engine:     engine,
		mcp:        mcpServer,
		instanceID: instanceID,
	}

	if rootDir != "" {
		watcher, err := workspace.NewWatcher(engine, rootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = watcher
	}
	return s, nil
}

// InstanceID identifies this server process in status responses and logs.
func (s *MCPServer) InstanceID() string { return s.instanceID }

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP on stdio", "instance", s.instanceID)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		slog.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
