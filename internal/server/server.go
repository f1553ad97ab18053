// Package server exposes the automation steps as MCP tools. All tools share
// one driver session, opened on first use and closed on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/version"
	"go.uber.org/zap"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string // stdio or streamable-http
	Addr      string // Listen address for streamable-http
	CacheTTL  time.Duration
}

// OpenFunc opens a driver session.
type OpenFunc func(ctx context.Context) (*platform.Provider, error)

// Server wraps the MCP server with the shared session and tree cache.
type Server struct {
	cfg   Config
	open  OpenFunc
	log   *zap.Logger
	cache *TreeCache
	mcp   *mcpserver.MCPServer
	tools map[string]mcpserver.ServerTool

	mu       sync.Mutex
	provider *platform.Provider
}

// New creates a server with every tool registered. No session is opened
// until the first tool call.
func New(cfg Config, open OpenFunc, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:   cfg,
		open:  open,
		log:   log,
		cache: NewTreeCache(cfg.CacheTTL),
		tools: map[string]mcpserver.ServerTool{},
	}
	s.mcp = mcpserver.NewMCPServer(
		"novawin",
		version.Version,
		mcpserver.WithToolCapabilities(false),
	)
	tools := s.buildTools()
	for _, t := range tools {
		s.tools[t.Tool.Name] = t
	}
	s.mcp.AddTools(tools...)
	return s
}

// session returns the shared provider, opening it if needed. The caller
// must hold s.mu.
func (s *Server) session(ctx context.Context) (*platform.Provider, error) {
	if s.provider != nil {
		return s.provider, nil
	}
	p, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if p.Reader != nil {
		p.Reader = s.cache.Wrap(p.Reader)
	}
	s.provider = p
	s.log.Info("session opened", zap.String("session", p.SessionID))
	return p, nil
}

// closeSession releases the shared session. The caller must hold s.mu.
func (s *Server) closeSession() error {
	if s.provider == nil {
		return nil
	}
	p := s.provider
	s.provider = nil
	s.cache.InvalidateAll()
	err := p.Close()
	if err != nil {
		s.log.Warn("failed to close session", zap.String("session", p.SessionID), zap.Error(err))
	} else {
		s.log.Info("session closed", zap.String("session", p.SessionID))
	}
	return err
}

// Close releases the session, if one was opened.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeSession()
}

// Serve runs the configured transport until ctx is cancelled, then closes
// the session.
func (s *Server) Serve(ctx context.Context) error {
	defer s.Close()

	switch s.cfg.Transport {
	case "", "stdio":
		s.log.Info("serving MCP on stdio")
		err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(s.cfg.Addr) }()
		s.log.Info("serving MCP over streamable HTTP", zap.String("addr", s.cfg.Addr))

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}
