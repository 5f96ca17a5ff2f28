package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/jonwraymond/scriptexec/script"
)

// Tool names.
const (
	ExecuteScriptTool   = "execute_script"
	ExecuteRequestsTool = "execute_requests"
)

// ErrExecutorRequired is returned by New without an executor.
var ErrExecutorRequired = errors.New("executor is required")

// Config configures a Server.
type Config struct {
	// Executor runs the snippets. Required.
	Executor *script.Executor

	// Provider supplies per-session dependencies. Optional.
	Provider script.Provider

	// Name and Version identify the server to clients.
	Name    string
	Version string

	// Logger receives one entry per call. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Server exposes an executor as MCP tools.
type Server struct {
	cfg    Config
	server *mcp.Server
}

// ExecuteInput is the argument of execute_script.
type ExecuteInput struct {
	Script  string `json:"script" jsonschema:"the snippet to run; its last expression is the result"`
	Session string `json:"session,omitempty" jsonschema:"names the dependency set to bind; defaults to the MCP session"`
}

// ExecuteOutput is the structured result of execute_script.
type ExecuteOutput struct {
	Result  string `json:"result,omitempty"`
	Phase   string `json:"phase,omitempty"`
	Failure string `json:"failure,omitempty"`
}

// RequestsInput is the argument of execute_requests.
type RequestsInput struct {
	Text    string `json:"text" jsonschema:"model output containing <run-script purpose=\"...\"> blocks"`
	Session string `json:"session,omitempty" jsonschema:"names the dependency set to bind; defaults to the MCP session"`
}

// RequestOutcome is the outcome of one extracted request.
type RequestOutcome struct {
	Purpose string `json:"purpose"`
	Result  string `json:"result,omitempty"`
	Phase   string `json:"phase,omitempty"`
	Failure string `json:"failure,omitempty"`
}

// RequestsOutput is the structured result of execute_requests.
type RequestsOutput struct {
	Outcomes []RequestOutcome `json:"outcomes"`
}

// New creates a server with the tools registered.
func New(cfg Config) (*Server, error) {
	if cfg.Executor == nil {
		return nil, ErrExecutorRequired
	}
	if cfg.Name == "" {
		cfg.Name = "scriptexec"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		server: mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil),
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ExecuteScriptTool,
		Description: "Runs a script snippet and returns the value of its last expression.",
	}, s.executeScript)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ExecuteRequestsTool,
		Description: "Runs every <run-script> block found in the given text, in order.",
	}, s.executeRequests)
	return s, nil
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves on transport until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *Server) executeScript(ctx context.Context, req *mcp.CallToolRequest, in ExecuteInput) (*mcp.CallToolResult, ExecuteOutput, error) {
	out, err := s.execute(ctx, sessionName(req, in.Session), in.Script)
	if err != nil {
		return nil, ExecuteOutput{}, err
	}
	return toolResult(out), out, nil
}

func (s *Server) executeRequests(ctx context.Context, req *mcp.CallToolRequest, in RequestsInput) (*mcp.CallToolResult, RequestsOutput, error) {
	requests := script.ExtractAll(in.Text)
	if len(requests) == 0 {
		return nil, RequestsOutput{}, fmt.Errorf("no <run-script> blocks found")
	}

	session := sessionName(req, in.Session)
	out := RequestsOutput{Outcomes: make([]RequestOutcome, 0, len(requests))}
	var text strings.Builder
	failed := false
	for _, r := range requests {
		res, err := s.execute(ctx, session, r.Source)
		if err != nil {
			return nil, RequestsOutput{}, err
		}
		out.Outcomes = append(out.Outcomes, RequestOutcome{
			Purpose: r.Purpose,
			Result:  res.Result,
			Phase:   res.Phase,
			Failure: res.Failure,
		})
		fmt.Fprintf(&text, "# %s\n%s\n", r.Purpose, res.text())
		failed = failed || res.Failure != ""
	}
	return &mcp.CallToolResult{
		IsError: failed,
		Content: []mcp.Content{&mcp.TextContent{Text: text.String()}},
	}, out, nil
}

func (s *Server) execute(ctx context.Context, session, snippet string) (ExecuteOutput, error) {
	var deps []script.Dependency
	if s.cfg.Provider != nil {
		var err error
		deps, err = s.cfg.Provider.Dependencies(ctx, session)
		if err != nil {
			return ExecuteOutput{}, fmt.Errorf("dependencies for session %q: %w", session, err)
		}
	}

	res, err := s.cfg.Executor.Execute(ctx, snippet, deps...)
	if err != nil {
		s.cfg.Logger.Warn("Script rejected", zap.String("session", session), zap.Error(err))
		return ExecuteOutput{}, err
	}

	switch r := res.(type) {
	case *script.Failure:
		s.cfg.Logger.Info("Script failed", zap.String("session", session), zap.String("phase", string(r.Phase)))
		return ExecuteOutput{Phase: string(r.Phase), Failure: r.Message}, nil
	case script.Value:
		s.cfg.Logger.Debug("Script completed", zap.String("session", session))
		return ExecuteOutput{Result: script.FormatPayload(r.Payload)}, nil
	}
	return ExecuteOutput{}, fmt.Errorf("unexpected result %T", res)
}

func (o ExecuteOutput) text() string {
	if o.Failure != "" {
		return o.Failure
	}
	return o.Result
}

func toolResult(out ExecuteOutput) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: out.Failure != "",
		Content: []mcp.Content{&mcp.TextContent{Text: out.text()}},
	}
}

func sessionName(req *mcp.CallToolRequest, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if req != nil && req.Session != nil {
		return req.Session.ID()
	}
	return ""
}
