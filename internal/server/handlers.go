package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"gopkg.in/yaml.v3"
)

// toText serializes a tool result to YAML.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func stepResult(res steps.Result, err error) *mcp.CallToolResult {
	if err != nil {
		res.OK = false
		if res.Error == "" {
			res.Error = err.Error()
		}
		return mcp.NewToolResultError(toText(res))
	}
	res.OK = true
	return mcp.NewToolResultText(toText(res))
}

// stepHandler runs the named step with the tool arguments as params.
// Steps that change the UI invalidate the tree cache.
func (s *Server) stepHandler(step string, write bool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := steps.Params(request.GetArguments())

		s.mu.Lock()
		defer s.mu.Unlock()

		p, err := s.session(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := steps.Execute(ctx, p, step, params, steps.Scope{})
		if write {
			s.cache.InvalidateAll()
		}
		return stepResult(res, err), nil
	}
}

func (s *Server) handleSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := steps.Params(request.GetArguments())

	s.mu.Lock()
	defer s.mu.Unlock()

	if params.Bool("restart", false) {
		_ = s.closeSession()
	}
	p, err := s.session(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, misses := s.cache.Stats()
	return mcp.NewToolResultText(toText(map[string]interface{}{
		"session":      p.SessionID,
		"cache_ttl":    s.cfg.CacheTTL.String(),
		"cache_hits":   hits,
		"cache_misses": misses,
	})), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := steps.Params(request.GetArguments())

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.session(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	windows, err := p.Reader.ListWindows(ctx, platform.ListOptions{
		Title: params.String("title", ""),
		PID:   params.Int("pid", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(windows)), nil
}

func (s *Server) handleAttrs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := steps.Params(request.GetArguments())
	rid := params.String("rid", "")
	if rid == "" {
		return mcp.NewToolResultError("rid is required"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.session(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attrs, err := p.Reader.Attributes(ctx, rid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(attrs)), nil
}

func (s *Server) handleScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := steps.Params(request.GetArguments())
	format := strings.ToLower(params.String("format", "png"))

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.session(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if p.Screenshotter == nil {
		return mcp.NewToolResultError("screenshot not available"), nil
	}
	data, err := p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{
		Window:    params.String("window", ""),
		WindowRID: params.String("window-rid", ""),
		Format:    format,
		Quality:   params.Int("quality", 80),
		Scale:     params.Float("scale", 0.5),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mimeType := "image/png"
	if format == "jpg" || format == "jpeg" {
		mimeType = "image/jpeg"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewImageContent(base64.StdEncoding.EncodeToString(data), mimeType),
		},
	}, nil
}

func (s *Server) handleDo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := steps.Params(request.GetArguments())
	raw, ok := params["steps"]
	if !ok {
		return mcp.NewToolResultError("steps parameter is required"), nil
	}
	// Round-trip through YAML so shorthand values parse as in `do`.
	data, err := yaml.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid steps: %v", err)), nil
	}
	list, err := steps.ParseSteps(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.session(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	runner := &steps.Runner{
		Provider:    p,
		Scope:       steps.Scope{Window: params.String("window", ""), WindowRID: params.String("window-rid", "")},
		StopOnError: params.Bool("stop-on-error", true),
		Log:         s.log,
	}
	out := runner.Run(ctx, list)
	s.cache.InvalidateAll()

	if !out.OK {
		return mcp.NewToolResultError(toText(out)), nil
	}
	return mcp.NewToolResultText(toText(out)), nil
}
