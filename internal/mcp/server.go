package mcp

// Implementation Plan:
// 1. MCPServer struct with catalog and optional data-file watcher
// 2. NewMCPServer - registers the neo_* tools, creates the watcher
// 3. Serve - starts MCP server on stdio with graceful shutdown
// 4. Graceful shutdown on SIGTERM/SIGINT
// 5. Logs go to the zap logger (stderr), stdout belongs to the protocol

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/project-neo/internal/catalog"
	"github.com/mvp-joe/project-neo/internal/config"
	"go.uber.org/zap"
)

// ServerName identifies this server to MCP clients.
const ServerName = "neo-mcp"

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	catalog *catalog.Catalog
	watcher *catalog.FileWatcher
	mcp     *server.MCPServer
	logger  *zap.Logger

	// serveStdio runs the protocol loop; it returns when stdin closes
	serveStdio func(*server.MCPServer, ...server.StdioOption) error
}

// NewMCPServer creates an MCP server exposing the catalog.
// The catalog stays owned by the caller.
func NewMCPServer(cat *catalog.Catalog, cfg *config.Config, version string, logger *zap.Logger) (*MCPServer, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	AddNEOInspectTool(mcpServer, cat)
	AddNEOQueryTool(mcpServer, cat, cfg.Query)
	AddNEOSearchTool(mcpServer, cat, cfg.Query.MaxLimit)

	s := &MCPServer{
		catalog:    cat,
		mcp:        mcpServer,
		logger:     logger,
		serveStdio: server.ServeStdio,
	}

	if cfg.Watch.Enabled {
		watcher, err := catalog.NewFileWatcher(
			cat,
			[]string{cfg.Data.NEOPath, cfg.Data.CADPath},
			time.Duration(cfg.Watch.DebounceMs)*time.Millisecond,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = watcher
	}

	return s, nil
}

// Serve starts the MCP server and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start MCP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio", zap.String("name", ServerName))
		if err := s.serveStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping gracefully")
		cancel()
		return nil
	case err := <-errCh:
		if err == nil {
			s.logger.Info("MCP client disconnected")
		}
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the watcher.
func (s *MCPServer) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return nil
}
