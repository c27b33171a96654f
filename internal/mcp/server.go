// Package mcp exposes the calculator keypad to Model Context Protocol clients.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"procalc/calc"
	"procalc/internal/buildinfo"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	StateURI  = "calculator://state"
	KeypadURI = "calculator://keypad"
)

// Server holds the calculator session shared by every tool call.
type Server struct {
	m      *calc.Machine
	sess   *calc.Session
	logger *slog.Logger
}

// NewServer creates a Server. A nil m uses the default evaluator.
func NewServer(m *calc.Machine, logger *slog.Logger) *Server {
	if m == nil {
		m = calc.NewMachine(nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{m: m, sess: calc.NewSession(m), logger: logger}
}

// NewMCPServer builds an MCP server with all calculator tools and resources registered.
func (s *Server) NewMCPServer() *server.MCPServer {
	ms := server.NewMCPServer(
		"procalc-mcp",
		buildinfo.Short(),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)
	s.Register(ms)
	return ms
}

// Register adds the calculator tools and resources to ms.
func (s *Server) Register(ms *server.MCPServer) {
	ms.AddTool(mcpgo.NewTool("press_keys",
		mcpgo.WithDescription("Type a key script into the calculator, e.g. \"12+3*4=\". "+
			"Keys: 0-9 . + - * / % ( ) = ; 'c' clears, '<' deletes the last character."),
		mcpgo.WithString("keys",
			mcpgo.Required(),
			mcpgo.Description("Key script; spaces are ignored"),
		),
	), s.handlePressKeys)

	ms.AddTool(mcpgo.NewTool("press_button",
		mcpgo.WithDescription("Press one keypad button by its label (see calculator://keypad)"),
		mcpgo.WithString("label",
			mcpgo.Required(),
			mcpgo.Description("Button label such as \"7\", \"( )\", \"AC\", \"⌫\" or \"=\""),
		),
	), s.handlePressButton)

	ms.AddTool(mcpgo.NewTool("clear",
		mcpgo.WithDescription("Reset the calculator expression and history"),
	), s.handleClear)

	ms.AddTool(mcpgo.NewTool("evaluate",
		mcpgo.WithDescription("Evaluate an arithmetic expression without changing the calculator state"),
		mcpgo.WithString("expression",
			mcpgo.Required(),
			mcpgo.Description("Expression over 0-9 . + - * / % ( )"),
		),
	), s.handleEvaluate)

	ms.AddResource(mcpgo.NewResource(StateURI,
		"Calculator state",
		mcpgo.WithResourceDescription("Current expression, display text and history"),
		mcpgo.WithMIMEType("application/json"),
	), s.readState)

	ms.AddResource(mcpgo.NewResource(KeypadURI,
		"Calculator keypad",
		mcpgo.WithResourceDescription("Button labels, row by row"),
		mcpgo.WithMIMEType("application/json"),
	), s.readKeypad)
}

type stateResult struct {
	Expression string   `json:"expression"`
	Display    string   `json:"display"`
	Mode       string   `json:"mode"`
	History    []string `json:"history"`
}

func newStateResult(st calc.State) stateResult {
	hist := st.History
	if hist == nil {
		hist = []string{}
	}
	return stateResult{
		Expression: st.Expression,
		Display:    st.Display(),
		Mode:       st.Mode().String(),
		History:    hist,
	}
}

// textResult marshals v to JSON and wraps it in a single text content block.
func textResult(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

func (s *Server) handlePressKeys(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := request.GetArguments()
	keys, ok := args["keys"].(string)
	if !ok {
		return mcpgo.NewToolResultError("keys is required"), nil
	}
	actions, err := calc.ParseKeys(keys)
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("Error parsing keys: %v", err)), nil
	}
	st := s.sess.DispatchAll(actions)
	s.logger.Info("press_keys", "keys", keys, "display", st.Display())
	return textResult(newStateResult(st))
}

func (s *Server) handlePressButton(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := request.GetArguments()
	label, ok := args["label"].(string)
	if !ok {
		return mcpgo.NewToolResultError("label is required"), nil
	}
	a, ok := calc.ActionForLabel(label)
	if !ok {
		return mcpgo.NewToolResultError(fmt.Sprintf("Unknown button %q", label)), nil
	}
	st := s.sess.Dispatch(a)
	s.logger.Info("press_button", "label", label, "display", st.Display())
	return textResult(newStateResult(st))
}

func (s *Server) handleClear(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	s.sess.Reset()
	return textResult(newStateResult(s.sess.Snapshot()))
}

type evalResult struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

func (s *Server) handleEvaluate(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := request.GetArguments()
	expr, ok := args["expression"].(string)
	if !ok || expr == "" {
		return mcpgo.NewToolResultError("expression is required"), nil
	}
	out, err := s.m.Evaluate(expr)
	switch {
	case errors.Is(err, calc.ErrMath):
		return mcpgo.NewToolResultError(fmt.Sprintf("Math error: %v", err)), nil
	case err != nil:
		return mcpgo.NewToolResultError(fmt.Sprintf("Syntax error: %v", err)), nil
	}
	return textResult(evalResult{Expression: expr, Result: out})
}

func (s *Server) readState(ctx context.Context, request mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
	b, err := json.MarshalIndent(newStateResult(s.sess.Snapshot()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return []mcpgo.ResourceContents{
		mcpgo.TextResourceContents{
			URI:      StateURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func (s *Server) readKeypad(ctx context.Context, request mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
	b, err := json.MarshalIndent(calc.Keypad, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal keypad: %w", err)
	}
	return []mcpgo.ResourceContents{
		mcpgo.TextResourceContents{
			URI:      KeypadURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
